package config

import "os"

func IsDebug() bool {
	return os.Getenv("FACTS_DEBUG") == "1"
}
