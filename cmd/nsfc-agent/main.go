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
	"github.com/ligato/cn-infra/agent"
	"github.com/ligato/cn-infra/health/probe"
	"github.com/ligato/cn-infra/logging/logrus"
	"github.com/ligato/cn-infra/rpc/prometheus"
	"github.com/ligato/cn-infra/rpc/rest"

	"github.com/contiv/nsfc/plugins/nsfc"
)

// NSFCAgent serves the Neutron SFC redirection API over REST.
type NSFCAgent struct {
	HTTP        *rest.Plugin
	HealthProbe *probe.Plugin
	Prometheus  *prometheus.Plugin
	NSFC        *nsfc.Plugin
}

func (a *NSFCAgent) String() string {
	return "NSFCAgent"
}

// Init is called at startup phase. Method added in order to implement Plugin interface.
func (a *NSFCAgent) Init() error {
	return nil
}

// Close is called at cleanup phase. Method added in order to implement Plugin interface.
func (a *NSFCAgent) Close() error {
	return nil
}

func main() {
	nsfcAgent := &NSFCAgent{
		HTTP:        &rest.DefaultPlugin,
		HealthProbe: &probe.DefaultPlugin,
		Prometheus:  &prometheus.DefaultPlugin,
		NSFC:        &nsfc.DefaultPlugin,
	}

	a := agent.NewAgent(agent.AllPlugins(nsfcAgent))
	if err := a.Run(); err != nil {
		logrus.DefaultLogger().Fatal(err)
	}
}
