/*
flag Package set up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package.
	flag.Parse() is left to each main so that binaries can register their own
	flags before parsing.
*/

package flag

import (
	"flag"
)

const (
	SyncDaemon = "sync_daemon"
)

var (
	IsDevelopment bool
	ServiceName   string
	ByPassAuth    bool
)

func init() {
	flag.BoolVar(&IsDevelopment, "dev", true, "set to true if the current run is for development. default value is true")
	flag.StringVar(&ServiceName, "service", SyncDaemon, "name of the running service, used to tag logs and metrics")
	flag.BoolVar(&ByPassAuth, "no_auth", false, "serve the facade without the api token check")
}
