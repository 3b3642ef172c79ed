// Copyright 2025 Edgeo SCADA
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	logLevel   string
	bindAddr   string
	bcastAddr  string
	maxAPDU    int
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "bacnetctl",
	Short: "Decode, serve, and exchange BACnet application-layer messages",
	Long: `bacnetctl decodes raw BACnet APDU captures, runs a reference
ReadProperty/WriteProperty/ReadPropertyMultiple responder over
BACnet/IP, and issues requests against a live device.

Examples:
  bacnetctl decode --file capture.bin
  bacnetctl serve --bind 0.0.0.0:47808 --device 1001
  bacnetctl whois --bind 0.0.0.0:0
  bacnetctl read --device 192.168.1.50:47808 --object analog-input:1 --property present-value`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		return nil
	},
}

// Execute runs the bacnetctl command tree.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&bindAddr, "bind", "0.0.0.0:0", "local UDP address to bind")
	rootCmd.PersistentFlags().StringVar(&bcastAddr, "broadcast", "255.255.255.255:47808", "BACnet/IP broadcast address")
	rootCmd.PersistentFlags().IntVar(&maxAPDU, "max-apdu", 1476, "max APDU size in octets to negotiate")

	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("bind", rootCmd.PersistentFlags().Lookup("bind"))
	_ = viper.BindPFlag("broadcast", rootCmd.PersistentFlags().Lookup("broadcast"))
	_ = viper.BindPFlag("max-apdu", rootCmd.PersistentFlags().Lookup("max-apdu"))
}

func initConfig() {
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".bacnetctl")
		viper.SetConfigType("yaml")
	}
	viper.SetEnvPrefix("BACNETCTL")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "using config file:", viper.ConfigFileUsed())
	}
}
