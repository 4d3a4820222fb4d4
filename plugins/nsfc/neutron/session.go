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

package neutron

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/gophercloud/gophercloud"
	"github.com/gophercloud/gophercloud/openstack"
	"github.com/pkg/errors"
)

// SessionProvider supplies an authenticated client of the network service.
// Session lifetime and token refresh are its responsibility.
type SessionProvider interface {
	NetworkClient() (*gophercloud.ServiceClient, error)
}

// KeystoneSessionProvider authenticates with Keystone v3 password credentials,
// scoped to a project of the given domain.
type KeystoneSessionProvider struct {
	IdentityEndpoint string
	Domain           string
	Project          string
	Username         string
	Password         string
	Region           string
}

// NetworkClient authenticates and returns the networking v2 service client.
func (p *KeystoneSessionProvider) NetworkClient() (*gophercloud.ServiceClient, error) {
	provider, err := openstack.AuthenticatedClient(gophercloud.AuthOptions{
		IdentityEndpoint: p.IdentityEndpoint,
		Username:         p.Username,
		Password:         p.Password,
		DomainName:       p.Domain,
		AllowReauth:      true,
		Scope: &gophercloud.AuthScope{
			ProjectName: p.Project,
			DomainName:  p.Domain,
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to authenticate at %s as %s", p.IdentityEndpoint, p.Username)
	}
	client, err := openstack.NewNetworkV2(provider, gophercloud.EndpointOpts{Region: p.Region})
	if err != nil {
		return nil, errors.Wrapf(err, "no network endpoint in region '%s'", p.Region)
	}
	return client, nil
}

// AuthURL builds the identity endpoint of the given provider, e.g. http://10.1.1.1:5000/v3.
func AuthURL(providerIP string, port int, path string) string {
	return fmt.Sprintf("http://%s/%s", net.JoinHostPort(providerIP, strconv.Itoa(port)), strings.TrimPrefix(path, "/"))
}
