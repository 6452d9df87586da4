package app_config

import (
	"io/ioutil"
	"log"

	"gopkg.in/yaml.v2"
)

// SheetSources maps every tab to its published export url. A blank url
// disables the tab for this deployment.
type SheetSources struct {
	ACCOUNTS      string `yaml:"ACCOUNTS"`
	POSTS         string `yaml:"POSTS"`
	COMMENTS      string `yaml:"COMMENTS"`
	LIKES         string `yaml:"LIKES"`
	FOLLOWS       string `yaml:"FOLLOWS"`
	BLOCKS        string `yaml:"BLOCKS"`
	BANS          string `yaml:"BANS"`
	MESSAGES      string `yaml:"MESSAGES"`
	NOTIFICATIONS string `yaml:"NOTIFICATIONS"`
	PHOTOS        string `yaml:"PHOTOS"`
	STATUS        string `yaml:"STATUS"`
}

// This is the daemon config for one viewer's sync engine. Secrets never
// live here: the write token and the facade token ride env vars.
type GridFeedAppConfig struct {
	// Account id the engine reads and writes as.
	VIEWER_ID string `yaml:"VIEWER_ID"`
	// Tab export parsing: auto, csv or html.
	SHEET_FORMAT string       `yaml:"SHEET_FORMAT"`
	SOURCES      SheetSources `yaml:"SOURCES"`
	// Serialized async write endpoint.
	WRITE_ENDPOINT_URL string `yaml:"WRITE_ENDPOINT_URL"`
	// Per-tab fetch budget for one refresh cycle.
	FETCH_TIMEOUT_SECOND int64 `yaml:"FETCH_TIMEOUT_SECOND"`
	// Tick period for the open-conversation fast poll.
	CONVERSATION_POLL_SECOND int64 `yaml:"CONVERSATION_POLL_SECOND"`
	// Where overlay state survives restarts: none, file, redis or
	// postgres.
	STATE_STORE_BACKEND string `yaml:"STATE_STORE_BACKEND"`
	STATE_STORE_PATH    string `yaml:"STATE_STORE_PATH"`
	// Where media bytes live: local or s3.
	MEDIA_STORE_BACKEND string `yaml:"MEDIA_STORE_BACKEND"`
	MEDIA_CACHE_DIR     string `yaml:"MEDIA_CACHE_DIR"`
	MEDIA_S3_BUCKET     string `yaml:"MEDIA_S3_BUCKET"`
	// Facade listen address, e.g. "127.0.0.1:8080".
	SERVE_ADDRESS string `yaml:"SERVE_ADDRESS"`
}

func ParseGridFeedAppConfig(path string) GridFeedAppConfig {
	c := GridFeedAppConfig{}
	yamlFile, err := ioutil.ReadFile(path)
	if err != nil {
		log.Fatal("yamlFile. get err: ", err.Error())
	}
	err = yaml.Unmarshal(yamlFile, &c)
	if err != nil {
		log.Fatal("Unmarshal: ", err)
	}
	return c
}
