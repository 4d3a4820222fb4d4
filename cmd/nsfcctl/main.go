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

// nsfcctl is a command line client of the nsfc agent REST API.
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/ghodss/yaml"
	"github.com/spf13/cobra"

	"github.com/contiv/nsfc/plugins/nsfc/model"
	"github.com/contiv/nsfc/plugins/nsfc/restapi"
)

var (
	configFile   string
	outputFormat string

	ingressIPs []string
	egressIPs  []string
	groupID    string
	portIPs    []string
)

// run executes a request against the agent and prints the reply.
func run(method, path string, body, reply interface{}) error {
	client, err := NewClient(configFile)
	if err != nil {
		return err
	}
	if err := client.Do(method, path, body, reply); err != nil {
		return err
	}
	if reply == nil {
		return nil
	}
	out, err := format(reply)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

// format prints the reply in the selected output format.
func format(reply interface{}) (string, error) {
	switch outputFormat {
	case "json":
		out, err := json.MarshalIndent(reply, "", "  ")
		if err != nil {
			return "", err
		}
		return string(out) + "\n", nil
	case "yaml":
		out, err := yaml.Marshal(reply)
		return string(out), err
	}
	return "", fmt.Errorf("unknown output format '%s', use json or yaml", outputFormat)
}

var cmdStatus = &cobra.Command{
	Use:   "status",
	Short: "Show name, version and readiness of the controller",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(http.MethodGet, restapi.RestURLStatus, nil, &model.Status{})
	},
}

var cmdCapabilities = &cobra.Command{
	Use:   "capabilities",
	Short: "Show features offered by the controller",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(http.MethodGet, restapi.RestURLCapabilities, nil, &model.Capabilities{})
	},
}

var cmdPort = &cobra.Command{
	Use:   "port",
	Short: "Manage inspection ports (port pairs)",
}

var cmdPortRegister = &cobra.Command{
	Use:   "register ingress-port-id egress-port-id",
	Short: "Register an inspection port, optionally into an existing group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		port := &model.InspectionPort{
			Ingress: &model.NetworkElement{ID: args[0], PortIPs: ingressIPs},
			Egress:  &model.NetworkElement{ID: args[1], PortIPs: egressIPs},
			Parent:  groupID,
		}
		return run(http.MethodPost, restapi.RestURLInspectionPorts, port, &model.InspectionPort{})
	},
}

var cmdPortGet = &cobra.Command{
	Use:   "get port-id",
	Short: "Show an inspection port",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(http.MethodGet, restapi.WithID(restapi.RestURLInspectionPort, args[0]), nil, &model.InspectionPort{})
	},
}

var cmdPortRemove = &cobra.Command{
	Use:   "remove port-id",
	Short: "Remove an inspection port, its group is removed with the last port",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(http.MethodDelete, restapi.WithID(restapi.RestURLInspectionPort, args[0]), nil, nil)
	},
}

var cmdChain = &cobra.Command{
	Use:   "chain",
	Short: "Manage service function chains (port chains)",
}

var cmdChainCreate = &cobra.Command{
	Use:   "create group-id...",
	Short: "Create a chain over the given groups, in traffic order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(http.MethodPost, restapi.RestURLChains,
			&restapi.ChainRequest{GroupIDs: args}, &model.ServiceFunctionChain{})
	},
}

var cmdChainUpdate = &cobra.Command{
	Use:   "update chain-id [group-id...]",
	Short: "Replace the groups of a chain",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(http.MethodPut, restapi.WithID(restapi.RestURLChain, args[0]),
			&restapi.ChainRequest{GroupIDs: args[1:]}, &model.ServiceFunctionChain{})
	},
}

var cmdChainDelete = &cobra.Command{
	Use:   "delete chain-id",
	Short: "Delete a chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(http.MethodDelete, restapi.WithID(restapi.RestURLChain, args[0]), nil, nil)
	},
}

var cmdChainElements = &cobra.Command{
	Use:   "elements chain-id",
	Short: "Show the groups of a chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var groups []*model.InspectionPortGroup
		return run(http.MethodGet, restapi.WithID(restapi.RestURLChainElements, args[0]), nil, &groups)
	},
}

var cmdChainSnapshot = &cobra.Command{
	Use:   "snapshot chain-id",
	Short: "Show the last recorded state of a chain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(http.MethodGet, restapi.WithID(restapi.RestURLChainSnapshot, args[0]), nil, &model.ServiceFunctionChain{})
	},
}

var cmdHook = &cobra.Command{
	Use:   "hook",
	Short: "Manage inspection hooks (flow classifiers)",
}

var cmdHookInstall = &cobra.Command{
	Use:   "install inspected-port-id chain-id",
	Short: "Redirect the traffic destined to the inspected port through the chain",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		install := &restapi.HookInstallRequest{
			InspectedPort: &model.NetworkElement{ID: args[0], PortIPs: portIPs},
			ChainID:       args[1],
		}
		return run(http.MethodPost, restapi.RestURLInspectionHooks, install, &restapi.HookInstallReply{})
	},
}

var cmdHookUpdate = &cobra.Command{
	Use:   "update hook-id inspected-port-id chain-id",
	Short: "Move a hook to another chain",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		update := &restapi.HookUpdateRequest{
			InspectedPort: &model.NetworkElement{ID: args[1], PortIPs: portIPs},
			ChainID:       args[2],
		}
		return run(http.MethodPut, restapi.WithID(restapi.RestURLInspectionHook, args[0]), update, nil)
	},
}

var cmdHookGet = &cobra.Command{
	Use:   "get hook-id",
	Short: "Show an inspection hook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(http.MethodGet, restapi.WithID(restapi.RestURLInspectionHook, args[0]), nil, &model.InspectionHook{})
	},
}

var cmdHookRemove = &cobra.Command{
	Use:   "remove hook-id",
	Short: "Remove an inspection hook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(http.MethodDelete, restapi.WithID(restapi.RestURLInspectionHook, args[0]), nil, nil)
	},
}

var cmdHookSnapshot = &cobra.Command{
	Use:   "snapshot hook-id",
	Short: "Show the last recorded state of an inspection hook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(http.MethodGet, restapi.WithID(restapi.RestURLHookSnapshot, args[0]), nil, &model.InspectionHook{})
	},
}

func main() {
	rootCmd := &cobra.Command{
		Use:          "nsfcctl",
		Short:        "Client of the Neutron SFC redirection agent",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "",
		"client configuration file (defaults to $"+configEnv+")")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "json", "output format (json or yaml)")

	cmdPortRegister.Flags().StringSliceVar(&ingressIPs, "ingress-ip", nil, "addresses of the ingress port")
	cmdPortRegister.Flags().StringSliceVar(&egressIPs, "egress-ip", nil, "addresses of the egress port")
	cmdPortRegister.Flags().StringVar(&groupID, "group", "", "id of an existing group to register into")
	cmdPort.AddCommand(cmdPortRegister, cmdPortGet, cmdPortRemove)

	cmdChain.AddCommand(cmdChainCreate, cmdChainUpdate, cmdChainDelete, cmdChainElements, cmdChainSnapshot)

	for _, cmd := range []*cobra.Command{cmdHookInstall, cmdHookUpdate} {
		cmd.Flags().StringSliceVar(&portIPs, "ip", nil, "addresses of the inspected port")
	}
	cmdHookInstall.MarkFlagRequired("ip")
	cmdHook.AddCommand(cmdHookInstall, cmdHookUpdate, cmdHookGet, cmdHookRemove, cmdHookSnapshot)

	rootCmd.AddCommand(cmdStatus, cmdCapabilities, cmdPort, cmdChain, cmdHook)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
