// Copyright (c) 2020 The Meter.io developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"log/slog"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	genesisFlag = cli.StringFlag{
		Name:   "genesis",
		Usage:  "path of a genesis yaml, the built-in devnet if empty",
		EnvVar: "AUCTIOND_GENESIS",
	}
	dataDirFlag = cli.StringFlag{
		Name:   "data-dir",
		Value:  defaultDataDir(),
		Usage:  "directory for listing and log databases",
		EnvVar: "AUCTIOND_DATA_DIR",
	}
	persistFlag = cli.BoolFlag{
		Name:   "persist",
		Usage:  "keep data on disk, in memory otherwise",
		EnvVar: "AUCTIOND_PERSIST",
	}
	apiAddrFlag = cli.StringFlag{
		Name:   "api-addr",
		Value:  "localhost:8670",
		Usage:  "API service listening address",
		EnvVar: "AUCTIOND_API_ADDR",
	}
	apiCorsFlag = cli.StringFlag{
		Name:   "api-cors",
		Value:  "",
		Usage:  "comma separated list of domains from which to accept cross origin requests to API",
		EnvVar: "AUCTIOND_API_CORS",
	}
	apiTimeoutFlag = cli.IntFlag{
		Name:   "api-timeout",
		Value:  10000,
		Usage:  "API request timeout value in milliseconds",
		EnvVar: "AUCTIOND_API_TIMEOUT",
	}
	cacheSizeFlag = cli.IntFlag{
		Name:  "cache-size",
		Value: 4096,
		Usage: "number of decoded listings kept in memory",
	}
	ntpServerFlag = cli.StringFlag{
		Name:   "ntp-server",
		Value:  "pool.ntp.org",
		Usage:  "NTP server correcting the auction clock, system clock if empty",
		EnvVar: "AUCTIOND_NTP_SERVER",
	}
	ntpToleranceFlag = cli.DurationFlag{
		Name:  "ntp-tolerance",
		Value: 5e9,
		Usage: "clock offset logged as a warning",
	}
	verbosityFlag = cli.IntFlag{
		Name:   "verbosity",
		Value:  3,
		Usage:  "log verbosity (1 error, 2 warn, 3 info, 4 debug)",
		EnvVar: "AUCTIOND_VERBOSITY",
	}
	envFileFlag = cli.StringFlag{
		Name:  "env-file",
		Value: ".env",
		Usage: "dotenv file loaded before flags are parsed",
	}
	assetFlag = cli.Uint64Flag{
		Name:  "asset",
		Usage: "asset id",
	}
)

func logLevel(verbosity int) slog.Level {
	switch {
	case verbosity <= 1:
		return slog.LevelError
	case verbosity == 2:
		return slog.LevelWarn
	case verbosity == 3:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
