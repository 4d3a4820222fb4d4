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
	"encoding/json"
	"fmt"

	"github.com/gophercloud/gophercloud"
	"github.com/gophercloud/gophercloud/openstack/networking/v2/extensions/portsbinding"
	"github.com/gophercloud/gophercloud/openstack/networking/v2/ports"
	"github.com/pkg/errors"

	"github.com/contiv/nsfc/plugins/nsfc/sfcerr"
)

// sfcPath is the URL prefix of the networking-sfc extension resources.
const sfcPath = "sfc"

// singular names used as the JSON envelope of a single resource
var resourceNames = map[string]string{
	PortPairsCollection:       "port_pair",
	PortPairGroupsCollection:  "port_pair_group",
	PortChainsCollection:      "port_chain",
	FlowClassifiersCollection: "flow_classifier",
}

// GophercloudBackend implements Backend over the networking v2 service
// of OpenStack, using gophercloud.
type GophercloudBackend struct {
	client *gophercloud.ServiceClient
}

// NewGophercloudBackend returns a backend using the given network service client.
func NewGophercloudBackend(client *gophercloud.ServiceClient) *GophercloudBackend {
	return &GophercloudBackend{client: client}
}

// ListPorts lists all ports together with their binding profile.
func (b *GophercloudBackend) ListPorts() ([]*Port, error) {
	page, err := ports.List(b.client, ports.ListOpts{}).AllPages()
	if err != nil {
		return nil, fault(err, "listing ports")
	}
	var list []Port
	if err := ports.ExtractPortsInto(page, &list); err != nil {
		return nil, errors.Wrap(err, "decoding ports")
	}
	out := make([]*Port, 0, len(list))
	for i := range list {
		out = append(out, &list[i])
	}
	return out, nil
}

// GetPort returns the port with the given id.
func (b *GophercloudBackend) GetPort(id string) (*Port, error) {
	port := &Port{}
	if err := ports.Get(b.client, id).ExtractInto(port); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fault(err, "getting port %s", id)
	}
	return port, nil
}

// UpdatePort replaces the binding profile of the port.
func (b *GophercloudBackend) UpdatePort(id string, update *PortUpdate) (*Port, error) {
	opts := portsbinding.UpdateOptsExt{
		UpdateOptsBuilder: ports.UpdateOpts{},
		Profile:           update.Profile,
	}
	port := &Port{}
	if err := ports.Update(b.client, id, opts).ExtractInto(port); err != nil {
		return nil, fault(err, "updating port %s", id)
	}
	return port, nil
}

// ListPortPairs lists all port pairs.
func (b *GophercloudBackend) ListPortPairs() ([]*PortPair, error) {
	var list []*PortPair
	if err := b.list(PortPairsCollection, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetPortPair returns the port pair with the given id.
func (b *GophercloudBackend) GetPortPair(id string) (*PortPair, error) {
	pair := &PortPair{}
	if found, err := b.get(PortPairsCollection, id, pair); !found || err != nil {
		return nil, err
	}
	return pair, nil
}

// CreatePortPair creates a port pair.
func (b *GophercloudBackend) CreatePortPair(pair *PortPair) (*PortPair, error) {
	created := &PortPair{}
	if err := b.create(PortPairsCollection, pair, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdatePortPair updates a port pair.
func (b *GophercloudBackend) UpdatePortPair(id string, update *PortPairUpdate) (*PortPair, error) {
	updated := &PortPair{}
	if err := b.update(PortPairsCollection, id, update, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePortPair deletes a port pair.
func (b *GophercloudBackend) DeletePortPair(id string) error {
	return b.delete(PortPairsCollection, id)
}

// ListPortPairGroups lists all port pair groups.
func (b *GophercloudBackend) ListPortPairGroups() ([]*PortPairGroup, error) {
	var list []*PortPairGroup
	if err := b.list(PortPairGroupsCollection, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetPortPairGroup returns the port pair group with the given id.
func (b *GophercloudBackend) GetPortPairGroup(id string) (*PortPairGroup, error) {
	group := &PortPairGroup{}
	if found, err := b.get(PortPairGroupsCollection, id, group); !found || err != nil {
		return nil, err
	}
	return group, nil
}

// CreatePortPairGroup creates a port pair group.
func (b *GophercloudBackend) CreatePortPairGroup(group *PortPairGroup) (*PortPairGroup, error) {
	created := &PortPairGroup{}
	if err := b.create(PortPairGroupsCollection, group, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdatePortPairGroup updates a port pair group.
func (b *GophercloudBackend) UpdatePortPairGroup(id string, update *PortPairGroupUpdate) (*PortPairGroup, error) {
	updated := &PortPairGroup{}
	if err := b.update(PortPairGroupsCollection, id, update, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePortPairGroup deletes a port pair group.
func (b *GophercloudBackend) DeletePortPairGroup(id string) error {
	return b.delete(PortPairGroupsCollection, id)
}

// ListPortChains lists all port chains.
func (b *GophercloudBackend) ListPortChains() ([]*PortChain, error) {
	var list []*PortChain
	if err := b.list(PortChainsCollection, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetPortChain returns the port chain with the given id.
func (b *GophercloudBackend) GetPortChain(id string) (*PortChain, error) {
	chain := &PortChain{}
	if found, err := b.get(PortChainsCollection, id, chain); !found || err != nil {
		return nil, err
	}
	return chain, nil
}

// CreatePortChain creates a port chain.
func (b *GophercloudBackend) CreatePortChain(chain *PortChain) (*PortChain, error) {
	created := &PortChain{}
	if err := b.create(PortChainsCollection, chain, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdatePortChain updates a port chain.
func (b *GophercloudBackend) UpdatePortChain(id string, update *PortChainUpdate) (*PortChain, error) {
	updated := &PortChain{}
	if err := b.update(PortChainsCollection, id, update, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeletePortChain deletes a port chain.
func (b *GophercloudBackend) DeletePortChain(id string) error {
	return b.delete(PortChainsCollection, id)
}

// ListFlowClassifiers lists all flow classifiers.
func (b *GophercloudBackend) ListFlowClassifiers() ([]*FlowClassifier, error) {
	var list []*FlowClassifier
	if err := b.list(FlowClassifiersCollection, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// GetFlowClassifier returns the flow classifier with the given id.
func (b *GophercloudBackend) GetFlowClassifier(id string) (*FlowClassifier, error) {
	classifier := &FlowClassifier{}
	if found, err := b.get(FlowClassifiersCollection, id, classifier); !found || err != nil {
		return nil, err
	}
	return classifier, nil
}

// CreateFlowClassifier creates a flow classifier.
func (b *GophercloudBackend) CreateFlowClassifier(classifier *FlowClassifier) (*FlowClassifier, error) {
	created := &FlowClassifier{}
	if err := b.create(FlowClassifiersCollection, classifier, created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateFlowClassifier updates a flow classifier.
func (b *GophercloudBackend) UpdateFlowClassifier(id string, update *FlowClassifierUpdate) (*FlowClassifier, error) {
	updated := &FlowClassifier{}
	if err := b.update(FlowClassifiersCollection, id, update, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteFlowClassifier deletes a flow classifier.
func (b *GophercloudBackend) DeleteFlowClassifier(id string) error {
	return b.delete(FlowClassifiersCollection, id)
}

func (b *GophercloudBackend) url(collection string, id ...string) string {
	return b.client.ServiceURL(append([]string{sfcPath, collection}, id...)...)
}

func (b *GophercloudBackend) list(collection string, into interface{}) error {
	var resp map[string]json.RawMessage
	if _, err := b.client.Get(b.url(collection), &resp, nil); err != nil {
		return fault(err, "listing %s", collection)
	}
	return decode(resp, collection, into)
}

func (b *GophercloudBackend) get(collection, id string, into interface{}) (found bool, err error) {
	var resp map[string]json.RawMessage
	if _, err := b.client.Get(b.url(collection, id), &resp, nil); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fault(err, "getting %s %s", resourceNames[collection], id)
	}
	return true, decode(resp, resourceNames[collection], into)
}

func (b *GophercloudBackend) create(collection string, payload, into interface{}) error {
	resource := resourceNames[collection]
	body := map[string]interface{}{resource: payload}
	var resp map[string]json.RawMessage
	_, err := b.client.Post(b.url(collection), body, &resp, &gophercloud.RequestOpts{OkCodes: []int{201}})
	if err != nil {
		return fault(err, "creating %s", resource)
	}
	return decode(resp, resource, into)
}

func (b *GophercloudBackend) update(collection, id string, payload, into interface{}) error {
	resource := resourceNames[collection]
	body := map[string]interface{}{resource: payload}
	var resp map[string]json.RawMessage
	_, err := b.client.Put(b.url(collection, id), body, &resp, &gophercloud.RequestOpts{OkCodes: []int{200}})
	if err != nil {
		return fault(err, "updating %s %s", resource, id)
	}
	return decode(resp, resource, into)
}

func (b *GophercloudBackend) delete(collection, id string) error {
	if _, err := b.client.Delete(b.url(collection, id), nil); err != nil {
		return fault(err, "deleting %s %s", resourceNames[collection], id)
	}
	return nil
}

func decode(resp map[string]json.RawMessage, key string, into interface{}) error {
	raw, ok := resp[key]
	if !ok {
		return errors.Errorf("response carries no '%s'", key)
	}
	return errors.Wrapf(json.Unmarshal(raw, into), "decoding %s", key)
}

func isNotFound(err error) bool {
	if _, ok := err.(gophercloud.ErrDefault404); ok {
		return true
	}
	if coded, ok := err.(gophercloud.StatusCodeError); ok {
		return coded.GetStatusCode() == 404
	}
	return false
}

// neutronFault is the body of a failure response of neutron.
type neutronFault struct {
	NeutronError struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"NeutronError"`
}

// fault converts an error of gophercloud into a backend fault.
func fault(err error, format string, args ...interface{}) error {
	coded, ok := err.(gophercloud.StatusCodeError)
	if !ok {
		return sfcerr.Fault(0, err.Error(), format, args...)
	}
	return sfcerr.Fault(coded.GetStatusCode(), faultMessage(err), format, args...)
}

func faultMessage(err error) string {
	var body []byte
	switch e := err.(type) {
	case gophercloud.ErrDefault400:
		body = e.Body
	case gophercloud.ErrDefault404:
		body = e.Body
	case gophercloud.ErrDefault409:
		body = e.Body
	case gophercloud.ErrDefault500:
		body = e.Body
	case gophercloud.ErrDefault503:
		body = e.Body
	case gophercloud.ErrUnexpectedResponseCode:
		body = e.Body
	}
	nf := &neutronFault{}
	if len(body) > 0 && json.Unmarshal(body, nf) == nil && nf.NeutronError.Message != "" {
		return nf.NeutronError.Message
	}
	if len(body) > 0 {
		return string(body)
	}
	return fmt.Sprint(err)
}
