package cmdutil

import "github.com/spf13/pflag"

// PersistentFlags defines the flags shared by every command.
func PersistentFlags(flags *pflag.FlagSet) {
	flags.Bool("debug", false, "debug logging")
	flags.String("config", "", "config file, defaults to connectors.yaml in the working directory")
	flags.String("dotenv", ".env.local", "the dotenv file to load")
	flags.String("log-file", "", "also write json logs to this file, rotated by size")

	flags.String("exchange", "", "the exchange to use")
	flags.String("env-prefix", "", "the credential env var prefix, defaults to the exchange name")
	flags.String("rate-limit", "", "override the request throttle, for example 2+1/5s")
	flags.Uint64("retries", 0, "retry idempotent requests on network errors")
	flags.String("record", "", "record the http traffic into this json file")

	flags.String("market-cache", "", "market snapshot cache: memory or redis")
	flags.String("redis-host", "localhost", "redis host")
	flags.String("redis-port", "6379", "redis port")
	flags.Int("redis-db", 0, "redis db")
	flags.String("redis-namespace", "connectors", "redis key namespace")

	flags.StringP("output", "o", "table", "output format: table, json or yaml")
}
