package utils

import (
	"crypto/md5"
	"encoding/hex"
	"math/rand"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/gridfeed/gridfeed/utils/dotenv"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz"

// ContainsString returns true iff the provided string slice hay contains string
// needle.
func ContainsString(hay []string, needle string) bool {
	for _, str := range hay {
		if str == needle {
			return true
		}
	}
	return false
}

func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func IsProdEnv() bool {
	return os.Getenv("GRIDFEED_ENV") == dotenv.ProdEnv
}

func TextToMd5Hash(text string) (string, error) {
	h := md5.New()
	if _, err := h.Write([]byte(text)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func RandomAlphabetString(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(b)
}

// GetUrlExtNameWithDot returns the extension of the file an url points to,
// including the leading dot. Query params are stripped first so that
// "a.com/x.png?v=2" yields ".png". Returns empty string if there is none.
func GetUrlExtNameWithDot(rawUrl string) string {
	u, err := url.Parse(rawUrl)
	if err != nil {
		// fall back to a raw split when the url does not parse
		idx := strings.LastIndex(rawUrl, ".")
		if idx == -1 {
			return ""
		}
		return rawUrl[idx:]
	}
	return path.Ext(u.Path)
}
