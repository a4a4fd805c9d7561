// Copyright (C) 2026 Christian Rößner
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// Command docker-healthcheck probes the readiness endpoint of a running mfs instance and
// exits non-zero unless it reports "up".
package main

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const mfsURL = "http://127.0.0.1:9080/healthz"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type readiness struct {
	Status string `json:"status"`
	Checks map[string]struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	} `json:"checks"`
}

func check(client *http.Client, url string) (*readiness, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	result := &readiness{}
	if err = json.Unmarshal(body, result); err != nil {
		return nil, fmt.Errorf("unexpected answer (%d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || result.Status != "up" {
		return result, fmt.Errorf("instance not ready: status=%d state=%q", resp.StatusCode, result.Status)
	}

	return result, nil
}

func main() {
	pflag.StringP("url", "u", mfsURL, "readiness url to test")
	pflag.BoolP("verbose", "v", false, "Be verbose")
	pflag.BoolP("tls-skip-verify", "t", false, "Skip TLS server certificate verification")
	pflag.Parse()

	_ = viper.BindPFlags(pflag.CommandLine)

	verbose := viper.GetBool("verbose")

	if verbose {
		fmt.Println("Checking", viper.GetString("url"))
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: viper.GetBool("tls-skip-verify")},
	}
	client := &http.Client{Timeout: 10 * time.Second, Transport: transport}

	result, err := check(client, viper.GetString("url"))
	if verbose && result != nil {
		for name, c := range result.Checks {
			fmt.Printf("  %s: %s %s\n", name, c.Status, c.Error)
		}
	}

	if err != nil {
		fmt.Println("Test FAILED:", err)
		os.Exit(1)
	}

	if verbose {
		fmt.Println("Test OK")
	}
}
