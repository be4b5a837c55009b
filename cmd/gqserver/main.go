/*
Gqserver starts a grammarq server and begins listening for new connections.

Usage:

	gqserver [flags]
	gqserver [flags] -l [[ADDRESS]:PORT]

Once started, the grammarq server will listen for HTTP requests and respond to
them using REST protocol. Clients upload grammars and then check words against
them, list their words, and compare them. By default, it will listen on
localhost:8080. This can be changed with the --listen/-l flag (or config via
environment var or config file). The flag argument must be either a full
address with port, such as "192.168.0.2:6001", or just the port preceeded by a
colon, such as ":6001".

Settings not given by flags are taken from environment variables, and then
from the [server] and [cache] sections of the config file.

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but must be given via
CLI flags, environment variable, or config file if running in production.

The flags are:

	-v, --version
		Give the current version of the grammarq server and then exit.

	-c, --config FILE
		Read settings from the given TOML file. Defaults to gq.toml in the
		current working directory, if it exists.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		GQSERVER_LISTEN_ADDRESS, and if that is not given, will default to
		server.listen in the config.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable GQSERVER_TOKEN_SECRET. If no secret is specified or an empty
		secret is given, a random secret will be automatically generated. Note
		that any tokens issued with a random secret will become invalid as soon
		as the server shuts down.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable GQSERVER_DATABASE. If no DB driver
		is specified anywhere, an in-memory database is used.

	--issue-token USERNAME
		Print a token for the given user and then exit instead of starting the
		server. Only useful with a persistent database and a fixed secret.
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dekarrin/grammarq/internal/config"
	"github.com/dekarrin/grammarq/internal/version"
	"github.com/dekarrin/grammarq/server"
	"github.com/spf13/pflag"
)

const (
	EnvListen = "GQSERVER_LISTEN_ADDRESS"
	EnvSecret = "GQSERVER_TOKEN_SECRET"
	EnvDB     = "GQSERVER_DATABASE"
)

var (
	flagVersion    = pflag.BoolP("version", "v", false, "Give the current version of the grammarq server and then exit.")
	flagConfig     = pflag.StringP("config", "c", "", "Read settings from the given TOML file.")
	flagListen     = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret     = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB         = pflag.String("db", "", "Use the given DB connection string.")
	flagIssueToken = pflag.String("issue-token", "", "Print a token for the given user and exit.")
)

// setting gives the value of a flag if it was set, otherwise the value of an
// environment variable if it is set, otherwise def.
func setting(flagName string, flagVal string, envVar string, def string) string {
	if pflag.Lookup(flagName).Changed {
		return flagVal
	}
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return def
}

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (grammarq v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	fileCfg, err := config.Load(*flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		os.Exit(1)
	}

	cfg, err := server.ConfigFromFile(fileCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %s\n", err.Error())
		os.Exit(1)
	}

	listenAddr := setting("listen", *flagListen, EnvListen, fileCfg.Server.Listen)
	if listenAddr != "" && !strings.Contains(listenAddr, ":") {
		fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
		os.Exit(1)
	}

	dbConnStr := setting("db", *flagDB, EnvDB, "")
	if dbConnStr != "" {
		cfg.DB, err = server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\nDo -h for help.\n", err.Error())
			os.Exit(1)
		}
	}

	// get token secret
	tokSecStr := setting("secret", *flagSecret, EnvSecret, string(cfg.TokenSecret))
	if tokSecStr != "" {
		cfg.TokenSecret = server.PadSecret([]byte(tokSecStr))

		if len(cfg.TokenSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(cfg.TokenSecret), server.MaxSecretSize)
			os.Exit(1)
		}
	} else {
		// use all 64 possible bytes if doing a generated secret
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}

		// yell at the user bc they should know their secret might be bad
		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	// configuration complete, initialize the server
	gs, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	defer gs.Close()
	log.Printf("DEBUG Server initialized")

	if *flagIssueToken != "" {
		tok, err := gs.IssueToken(context.Background(), *flagIssueToken)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not issue token: %s\n", err.Error())
			gs.Close()
			os.Exit(2)
		}
		fmt.Println(tok)
		return
	}

	// immediately create the admin user so we have someone we can log in as.
	created, err := gs.EnsureAdmin(context.Background(), "admin", "password")
	if err != nil {
		log.Printf("ERROR could not create initial admin user: %v", err)
		gs.Close()
		os.Exit(2)
	}
	if created {
		log.Printf("INFO  Added initial admin user with password 'password'...")
	}

	// okay, now actually launch it
	log.Printf("INFO  Starting grammarq server %s...", version.ServerCurrent)
	if err := gs.ServeForever(listenAddr); err != nil {
		gs.Close()
		log.Fatalf("FATAL %s", err.Error())
	}
}
