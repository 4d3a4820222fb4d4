// Copyright (c) 2019 Cisco and/or its affiliates.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at:
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
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ligato/cn-infra/config"
	"github.com/pkg/errors"

	"github.com/contiv/nsfc/plugins/nsfc/restapi"
)

const (
	configEnv      = "NSFCCTL_CONFIG"
	defaultAddress = "127.0.0.1:9191"
)

// ClientConfig is configuration of the REST client.
type ClientConfig struct {
	// Address of the agent REST endpoint (host:port).
	Address string `json:"address"`
	// Basic authorization for client
	BasicAuth string `json:"basic-auth"`
	// If https or http should be used
	UseHTTPS bool `json:"use-https"`
	// Request timeout in seconds
	TimeoutSeconds int `json:"timeout-seconds"`
}

// Client sends requests to the REST API of the nsfc agent.
type Client struct {
	Config *ClientConfig

	http *http.Client
}

// NewClient loads the client configuration from <configFile>, or from the
// file named by NSFCCTL_CONFIG if <configFile> is empty.
func NewClient(configFile string) (*Client, error) {
	if configFile == "" {
		configFile = os.Getenv(configEnv)
	}

	cfg := &ClientConfig{Address: defaultAddress, TimeoutSeconds: 10}
	if configFile != "" {
		if err := config.ParseConfigFromYamlFile(configFile, cfg); err != nil {
			return nil, err
		}
	}

	return &Client{
		Config: cfg,
		http:   &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
	}, nil
}

func (c *Client) url(path string) string {
	scheme := "http://"
	if c.Config.UseHTTPS {
		scheme = "https://"
	}
	return scheme + c.Config.Address + path
}

// Do sends the request with <body> encoded as JSON and decodes the reply
// into <reply> (if not nil). Non-2xx answers are returned as errors.
func (c *Client) Do(method, path string, body, reply interface{}) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, c.url(path), payload)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if len(c.Config.BasicAuth) > 0 {
		fields := strings.Split(c.Config.BasicAuth, ":")
		if len(fields) != 2 {
			return fmt.Errorf("invalid format of basic auth entry '%v' expected 'user:pass'", c.Config.BasicAuth)
		}
		req.SetBasicAuth(fields[0], fields[1])
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s failed", method, path)
	}
	defer resp.Body.Close()

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		failure := restapi.ErrorReply{}
		if json.Unmarshal(data, &failure) != nil || failure.Error == "" {
			return fmt.Errorf("%s %s: %s", method, path, resp.Status)
		}
		if failure.Code != 0 {
			return fmt.Errorf("%s (%s, backend code %d)", failure.Error, failure.Kind, failure.Code)
		}
		return fmt.Errorf("%s (%s)", failure.Error, failure.Kind)
	}
	if reply == nil || len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, reply)
}
