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

	"github.com/contiv/nsfc/plugins/nsfc/neutron"
	"github.com/contiv/nsfc/plugins/nsfc/sfcerr"
)

// Operations counted by the mock.
const (
	List   = "list"
	Get    = "get"
	Create = "create"
	Update = "update"
	Delete = "delete"
)

// MockBackend is an in-memory implementation of neutron.Backend.
//
// Ids are assigned deterministically: pp<N> for port pairs, g<N> for groups,
// pc<N> for chains and fc<N> for flow classifiers. Lists are returned in the
// order of creation. Like the real service, empty lists of a port chain are
// returned as null.
type MockBackend struct {
	ports       map[string]*neutron.Port
	pairs       map[string]*neutron.PortPair
	groups      map[string]*neutron.PortPairGroup
	chains      map[string]*neutron.PortChain
	classifiers map[string]*neutron.FlowClassifier

	// ids in the order of creation, per collection
	order map[string][]string
	seq   map[string]int

	faults map[string]error
	calls  map[string]int
	before map[string]func()
}

// NewMockBackend is a constructor for MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		ports:       make(map[string]*neutron.Port),
		pairs:       make(map[string]*neutron.PortPair),
		groups:      make(map[string]*neutron.PortPairGroup),
		chains:      make(map[string]*neutron.PortChain),
		classifiers: make(map[string]*neutron.FlowClassifier),
		order:       make(map[string][]string),
		seq:         make(map[string]int),
		faults:      make(map[string]error),
		calls:       make(map[string]int),
		before:      make(map[string]func()),
	}
}

// AddPort adds a port with the given id and addresses into the mock.
func (m *MockBackend) AddPort(id, mac string, ips ...string) *neutron.Port {
	port := &neutron.Port{ID: id, MACAddress: mac}
	for _, ip := range ips {
		port.FixedIPs = append(port.FixedIPs, neutron.FixedIP{IPAddress: ip})
	}
	if _, exists := m.ports[id]; !exists {
		m.order[neutron.PortsCollection] = append(m.order[neutron.PortsCollection], id)
	}
	m.ports[id] = copyPort(port)
	return port
}

// RemovePort removes the port from the mock.
func (m *MockBackend) RemovePort(id string) {
	delete(m.ports, id)
	order := m.order[neutron.PortsCollection][:0]
	for _, portID := range m.order[neutron.PortsCollection] {
		if portID != id {
			order = append(order, portID)
		}
	}
	m.order[neutron.PortsCollection] = order
}

// BeforeCall runs <fn> at the start of every following call of the given
// operation over the given collection.
func (m *MockBackend) BeforeCall(collection, operation string, fn func()) {
	m.before[collection+":"+operation] = fn
}

// InjectFault makes every following call of the given operation over the
// given collection fail with a backend fault.
func (m *MockBackend) InjectFault(collection, operation string, code int, message string) {
	m.faults[collection+":"+operation] = sfcerr.Fault(code, message, "%s %s", operation, collection)
}

// ClearFaults removes all injected faults.
func (m *MockBackend) ClearFaults() {
	m.faults = make(map[string]error)
}

// CallCount returns how many times the operation was called over the collection.
func (m *MockBackend) CallCount(collection, operation string) int {
	return m.calls[collection+":"+operation]
}

// PortPairCount returns the number of stored port pairs.
func (m *MockBackend) PortPairCount() int { return len(m.pairs) }

// PortPairGroupCount returns the number of stored port pair groups.
func (m *MockBackend) PortPairGroupCount() int { return len(m.groups) }

// FlowClassifierCount returns the number of stored flow classifiers.
func (m *MockBackend) FlowClassifierCount() int { return len(m.classifiers) }

// RawPortChain returns the stored chain as the service would return it.
func (m *MockBackend) RawPortChain(id string) *neutron.PortChain {
	if chain, ok := m.chains[id]; ok {
		return copyChain(chain)
	}
	return nil
}

func (m *MockBackend) call(collection, operation string) error {
	key := collection + ":" + operation
	m.calls[key]++
	if fn := m.before[key]; fn != nil {
		fn()
	}
	return m.faults[key]
}

func (m *MockBackend) nextID(collection, prefix string) string {
	m.seq[collection]++
	id := fmt.Sprintf("%s%d", prefix, m.seq[collection])
	m.order[collection] = append(m.order[collection], id)
	return id
}

func notFound(collection, id string) error {
	return sfcerr.Fault(404, fmt.Sprintf("%s %s could not be found", collection, id), "accessing %s", collection)
}

// ListPorts returns copies of all ports.
func (m *MockBackend) ListPorts() ([]*neutron.Port, error) {
	if err := m.call(neutron.PortsCollection, List); err != nil {
		return nil, err
	}
	var out []*neutron.Port
	for _, id := range m.order[neutron.PortsCollection] {
		if port, ok := m.ports[id]; ok {
			out = append(out, copyPort(port))
		}
	}
	return out, nil
}

// GetPort returns a copy of the port.
func (m *MockBackend) GetPort(id string) (*neutron.Port, error) {
	if err := m.call(neutron.PortsCollection, Get); err != nil {
		return nil, err
	}
	if port, ok := m.ports[id]; ok {
		return copyPort(port), nil
	}
	return nil, nil
}

// UpdatePort replaces the binding profile of the port.
func (m *MockBackend) UpdatePort(id string, update *neutron.PortUpdate) (*neutron.Port, error) {
	if err := m.call(neutron.PortsCollection, Update); err != nil {
		return nil, err
	}
	port, ok := m.ports[id]
	if !ok {
		return nil, notFound(neutron.PortsCollection, id)
	}
	port.Profile = copyProfile(update.Profile)
	return copyPort(port), nil
}

// ListPortPairs returns copies of all port pairs.
func (m *MockBackend) ListPortPairs() ([]*neutron.PortPair, error) {
	if err := m.call(neutron.PortPairsCollection, List); err != nil {
		return nil, err
	}
	var out []*neutron.PortPair
	for _, id := range m.order[neutron.PortPairsCollection] {
		if pair, ok := m.pairs[id]; ok {
			out = append(out, copyPair(pair))
		}
	}
	return out, nil
}

// GetPortPair returns a copy of the port pair.
func (m *MockBackend) GetPortPair(id string) (*neutron.PortPair, error) {
	if err := m.call(neutron.PortPairsCollection, Get); err != nil {
		return nil, err
	}
	if pair, ok := m.pairs[id]; ok {
		return copyPair(pair), nil
	}
	return nil, nil
}

// CreatePortPair stores a new port pair. Pairs are not idempotent:
// a second pair over the same ingress and egress is rejected.
func (m *MockBackend) CreatePortPair(pair *neutron.PortPair) (*neutron.PortPair, error) {
	if err := m.call(neutron.PortPairsCollection, Create); err != nil {
		return nil, err
	}
	for _, existing := range m.pairs {
		if existing.Ingress == pair.Ingress && existing.Egress == pair.Egress {
			return nil, sfcerr.Fault(409, fmt.Sprintf("port pair with ingress %s and egress %s already exists",
				pair.Ingress, pair.Egress), "%s %s", Create, neutron.PortPairsCollection)
		}
	}
	stored := copyPair(pair)
	stored.ID = m.nextID(neutron.PortPairsCollection, "pp")
	m.pairs[stored.ID] = stored
	return copyPair(stored), nil
}

// UpdatePortPair updates name and description of the port pair.
func (m *MockBackend) UpdatePortPair(id string, update *neutron.PortPairUpdate) (*neutron.PortPair, error) {
	if err := m.call(neutron.PortPairsCollection, Update); err != nil {
		return nil, err
	}
	pair, ok := m.pairs[id]
	if !ok {
		return nil, notFound(neutron.PortPairsCollection, id)
	}
	pair.Name = update.Name
	pair.Description = update.Description
	return copyPair(pair), nil
}

// DeletePortPair removes the port pair.
func (m *MockBackend) DeletePortPair(id string) error {
	if err := m.call(neutron.PortPairsCollection, Delete); err != nil {
		return err
	}
	if _, ok := m.pairs[id]; !ok {
		return notFound(neutron.PortPairsCollection, id)
	}
	delete(m.pairs, id)
	return nil
}

// ListPortPairGroups returns copies of all port pair groups.
func (m *MockBackend) ListPortPairGroups() ([]*neutron.PortPairGroup, error) {
	if err := m.call(neutron.PortPairGroupsCollection, List); err != nil {
		return nil, err
	}
	var out []*neutron.PortPairGroup
	for _, id := range m.order[neutron.PortPairGroupsCollection] {
		if group, ok := m.groups[id]; ok {
			out = append(out, copyGroup(group))
		}
	}
	return out, nil
}

// GetPortPairGroup returns a copy of the port pair group.
func (m *MockBackend) GetPortPairGroup(id string) (*neutron.PortPairGroup, error) {
	if err := m.call(neutron.PortPairGroupsCollection, Get); err != nil {
		return nil, err
	}
	if group, ok := m.groups[id]; ok {
		return copyGroup(group), nil
	}
	return nil, nil
}

// CreatePortPairGroup stores a new port pair group.
func (m *MockBackend) CreatePortPairGroup(group *neutron.PortPairGroup) (*neutron.PortPairGroup, error) {
	if err := m.call(neutron.PortPairGroupsCollection, Create); err != nil {
		return nil, err
	}
	stored := copyGroup(group)
	stored.ID = m.nextID(neutron.PortPairGroupsCollection, "g")
	m.groups[stored.ID] = stored
	return copyGroup(stored), nil
}

// UpdatePortPairGroup updates the port pair group.
func (m *MockBackend) UpdatePortPairGroup(id string, update *neutron.PortPairGroupUpdate) (*neutron.PortPairGroup, error) {
	if err := m.call(neutron.PortPairGroupsCollection, Update); err != nil {
		return nil, err
	}
	group, ok := m.groups[id]
	if !ok {
		return nil, notFound(neutron.PortPairGroupsCollection, id)
	}
	group.Name = update.Name
	group.Description = update.Description
	group.PortPairs = copyIDs(update.PortPairs)
	return copyGroup(group), nil
}

// DeletePortPairGroup removes the port pair group.
func (m *MockBackend) DeletePortPairGroup(id string) error {
	if err := m.call(neutron.PortPairGroupsCollection, Delete); err != nil {
		return err
	}
	if _, ok := m.groups[id]; !ok {
		return notFound(neutron.PortPairGroupsCollection, id)
	}
	delete(m.groups, id)
	return nil
}

// ListPortChains returns copies of all port chains.
func (m *MockBackend) ListPortChains() ([]*neutron.PortChain, error) {
	if err := m.call(neutron.PortChainsCollection, List); err != nil {
		return nil, err
	}
	var out []*neutron.PortChain
	for _, id := range m.order[neutron.PortChainsCollection] {
		if chain, ok := m.chains[id]; ok {
			out = append(out, copyChain(chain))
		}
	}
	return out, nil
}

// GetPortChain returns a copy of the port chain.
func (m *MockBackend) GetPortChain(id string) (*neutron.PortChain, error) {
	if err := m.call(neutron.PortChainsCollection, Get); err != nil {
		return nil, err
	}
	if chain, ok := m.chains[id]; ok {
		return copyChain(chain), nil
	}
	return nil, nil
}

// CreatePortChain stores a new port chain.
func (m *MockBackend) CreatePortChain(chain *neutron.PortChain) (*neutron.PortChain, error) {
	if err := m.call(neutron.PortChainsCollection, Create); err != nil {
		return nil, err
	}
	stored := copyChain(chain)
	stored.ID = m.nextID(neutron.PortChainsCollection, "pc")
	m.chains[stored.ID] = stored
	return copyChain(stored), nil
}

// UpdatePortChain updates the port chain.
func (m *MockBackend) UpdatePortChain(id string, update *neutron.PortChainUpdate) (*neutron.PortChain, error) {
	if err := m.call(neutron.PortChainsCollection, Update); err != nil {
		return nil, err
	}
	chain, ok := m.chains[id]
	if !ok {
		return nil, notFound(neutron.PortChainsCollection, id)
	}
	chain.Name = update.Name
	chain.Description = update.Description
	chain.PortPairGroups = copyIDs(update.PortPairGroups)
	chain.FlowClassifiers = copyIDs(update.FlowClassifiers)
	return copyChain(chain), nil
}

// DeletePortChain removes the port chain.
func (m *MockBackend) DeletePortChain(id string) error {
	if err := m.call(neutron.PortChainsCollection, Delete); err != nil {
		return err
	}
	if _, ok := m.chains[id]; !ok {
		return notFound(neutron.PortChainsCollection, id)
	}
	delete(m.chains, id)
	return nil
}

// ListFlowClassifiers returns copies of all flow classifiers.
func (m *MockBackend) ListFlowClassifiers() ([]*neutron.FlowClassifier, error) {
	if err := m.call(neutron.FlowClassifiersCollection, List); err != nil {
		return nil, err
	}
	var out []*neutron.FlowClassifier
	for _, id := range m.order[neutron.FlowClassifiersCollection] {
		if classifier, ok := m.classifiers[id]; ok {
			copied := *classifier
			out = append(out, &copied)
		}
	}
	return out, nil
}

// GetFlowClassifier returns a copy of the flow classifier.
func (m *MockBackend) GetFlowClassifier(id string) (*neutron.FlowClassifier, error) {
	if err := m.call(neutron.FlowClassifiersCollection, Get); err != nil {
		return nil, err
	}
	if classifier, ok := m.classifiers[id]; ok {
		copied := *classifier
		return &copied, nil
	}
	return nil, nil
}

// CreateFlowClassifier stores a new flow classifier.
func (m *MockBackend) CreateFlowClassifier(classifier *neutron.FlowClassifier) (*neutron.FlowClassifier, error) {
	if err := m.call(neutron.FlowClassifiersCollection, Create); err != nil {
		return nil, err
	}
	stored := *classifier
	stored.ID = m.nextID(neutron.FlowClassifiersCollection, "fc")
	m.classifiers[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

// UpdateFlowClassifier updates name and description of the flow classifier.
func (m *MockBackend) UpdateFlowClassifier(id string, update *neutron.FlowClassifierUpdate) (*neutron.FlowClassifier, error) {
	if err := m.call(neutron.FlowClassifiersCollection, Update); err != nil {
		return nil, err
	}
	classifier, ok := m.classifiers[id]
	if !ok {
		return nil, notFound(neutron.FlowClassifiersCollection, id)
	}
	classifier.Name = update.Name
	classifier.Description = update.Description
	copied := *classifier
	return &copied, nil
}

// DeleteFlowClassifier removes the flow classifier.
func (m *MockBackend) DeleteFlowClassifier(id string) error {
	if err := m.call(neutron.FlowClassifiersCollection, Delete); err != nil {
		return err
	}
	if _, ok := m.classifiers[id]; !ok {
		return notFound(neutron.FlowClassifiersCollection, id)
	}
	delete(m.classifiers, id)
	return nil
}

func copyIDs(ids []string) []string {
	if len(ids) == 0 {
		// the service leaves empty lists unset
		return nil
	}
	return append([]string(nil), ids...)
}

func copyProfile(profile map[string]interface{}) map[string]interface{} {
	if profile == nil {
		return nil
	}
	out := make(map[string]interface{}, len(profile))
	for k, v := range profile {
		out[k] = v
	}
	return out
}

func copyPort(port *neutron.Port) *neutron.Port {
	copied := *port
	copied.FixedIPs = append([]neutron.FixedIP(nil), port.FixedIPs...)
	copied.Profile = copyProfile(port.Profile)
	return &copied
}

func copyPair(pair *neutron.PortPair) *neutron.PortPair {
	copied := *pair
	return &copied
}

func copyGroup(group *neutron.PortPairGroup) *neutron.PortPairGroup {
	copied := *group
	copied.PortPairs = append([]string(nil), group.PortPairs...)
	return &copied
}

func copyChain(chain *neutron.PortChain) *neutron.PortChain {
	copied := *chain
	copied.PortPairGroups = copyIDs(chain.PortPairGroups)
	copied.FlowClassifiers = copyIDs(chain.FlowClassifiers)
	return &copied
}
