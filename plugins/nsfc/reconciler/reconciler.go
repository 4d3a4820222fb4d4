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

package reconciler

import (
	"net"
	"strings"

	"github.com/apparentlymart/go-cidr/cidr"
	"github.com/ligato/cn-infra/logging"
	"github.com/pkg/errors"

	"github.com/contiv/nsfc/plugins/nsfc/model"
	"github.com/contiv/nsfc/plugins/nsfc/neutron"
	"github.com/contiv/nsfc/plugins/nsfc/sfcerr"
)

// Reconciler rebuilds the port pair -> group -> chain hierarchy from the flat
// collections of the backend. Nothing is cached, every call re-reads
// the current remote state.
type Reconciler struct {
	Deps
}

// Deps lists dependencies of the Reconciler.
type Deps struct {
	Log     logging.Logger
	Neutron neutron.API

	// HookProfileKey is the key of the port binding profile holding the hook id.
	HookProfileKey string
}

// NewReconciler returns a new reconciler.
func NewReconciler(deps Deps) *Reconciler {
	return &Reconciler{Deps: deps}
}

// FindContainingGroup returns the port pair group listing the given pair, nil if none.
func (r *Reconciler) FindContainingGroup(pairID string) (*neutron.PortPairGroup, error) {
	groups, err := r.Neutron.ListPortPairGroups()
	if err != nil {
		return nil, err
	}
	return newGroupIndex(groups)[pairID], nil
}

// FindContainingChain returns the port chain listing the given group, nil if none.
func (r *Reconciler) FindContainingChain(groupID string) (*neutron.PortChain, error) {
	chains, err := r.Neutron.ListPortChains()
	if err != nil {
		return nil, err
	}
	return newChainIndexByGroup(chains)[groupID], nil
}

// FindContainingChainForHook returns the port chain listing the given flow classifier, nil if none.
func (r *Reconciler) FindContainingChainForHook(hookID string) (*neutron.PortChain, error) {
	chains, err := r.Neutron.ListPortChains()
	if err != nil {
		return nil, err
	}
	return newChainIndexByClassifier(chains)[hookID], nil
}

// FindPairByEndpoints returns the port pair with exactly the given ingress and egress, nil if none.
func (r *Reconciler) FindPairByEndpoints(ingressID, egressID string) (*neutron.PortPair, error) {
	pairs, err := r.Neutron.ListPortPairs()
	if err != nil {
		return nil, err
	}
	for _, pair := range pairs {
		if pair.Ingress == ingressID && pair.Egress == egressID {
			return pair, nil
		}
	}
	return nil, nil
}

// FindProtectedPort returns the port tagged with the id of the given flow classifier.
// The destination address of the classifier is informational only,
// the same address may be used by ports of different tenants.
func (r *Reconciler) FindProtectedPort(classifier *neutron.FlowClassifier) (*neutron.Port, error) {
	if classifier == nil {
		return nil, sfcerr.NullArgument("Flow Classifier")
	}
	r.Log.Debugf("Looking up port protected by %s (address %s)",
		classifier.ID, StripHostPrefix(classifier.DestinationIPPrefix))

	ports, err := r.Neutron.ListPorts()
	if err != nil {
		return nil, err
	}
	return newHookTagIndex(ports, r.HookProfileKey)[classifier.ID], nil
}

// NetworkElement fetches the port and projects it into a network element owned
// by <parentID>. Returns nil if the port does not exist.
func (r *Reconciler) NetworkElement(portID, parentID string) (*model.NetworkElement, error) {
	if portID == "" {
		return nil, nil
	}
	port, err := r.Neutron.GetPort(portID)
	if err != nil {
		return nil, err
	}
	if port == nil {
		r.Log.Errorf("Port %s not found in the backend", portID)
		return nil, nil
	}
	return ToNetworkElement(port, parentID), nil
}

// ToNetworkElement projects the backend port into a network element.
func ToNetworkElement(port *neutron.Port, parentID string) *model.NetworkElement {
	var macs []string
	if port.MACAddress != "" {
		macs = []string{port.MACAddress}
	}
	return &model.NetworkElement{
		ID:           port.ID,
		MACAddresses: macs,
		PortIPs:      port.IPAddresses(),
		Parent:       parentID,
	}
}

// ResolveGroup builds the group entity with all member pairs in the order of
// the group's own list. Pairs listed but missing in the backend are skipped.
func (r *Reconciler) ResolveGroup(group *neutron.PortPairGroup) (*model.InspectionPortGroup, error) {
	if group == nil {
		return nil, sfcerr.NullArgument("Port Pair Group")
	}
	pairs, err := r.pairsByID()
	if err != nil {
		return nil, err
	}
	return r.resolveGroup(group, pairs)
}

// ResolveChain builds the chain entity with all member groups in the order
// of the chain's list. Groups listed but missing in the backend are skipped.
func (r *Reconciler) ResolveChain(chain *neutron.PortChain) (*model.ServiceFunctionChain, error) {
	if chain == nil {
		return nil, sfcerr.NullArgument("Port Chain")
	}
	groups, err := r.Neutron.ListPortPairGroups()
	if err != nil {
		return nil, err
	}
	groupsByID := make(map[string]*neutron.PortPairGroup, len(groups))
	for _, group := range groups {
		groupsByID[group.ID] = group
	}
	pairs, err := r.pairsByID()
	if err != nil {
		return nil, err
	}

	sfc := &model.ServiceFunctionChain{
		ID:            chain.ID,
		ClassifierIDs: append([]string{}, chain.FlowClassifiers...),
	}
	for _, groupID := range chain.PortPairGroups {
		group, found := groupsByID[groupID]
		if !found {
			r.Log.Errorf("Port pair group %s listed for port chain %s does not exist!", groupID, chain.ID)
			continue
		}
		resolved, err := r.resolveGroup(group, pairs)
		if err != nil {
			return nil, err
		}
		sfc.AddGroup(resolved)
	}
	return sfc, nil
}

// ResolveFromPair builds the inspection port entity together with its
// containing group and chain, if any. This costs up to three list calls.
func (r *Reconciler) ResolveFromPair(pair *neutron.PortPair) (*model.InspectionPort, error) {
	if pair == nil {
		return nil, sfcerr.NullArgument("Port Pair")
	}
	group, err := r.FindContainingGroup(pair.ID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return r.inspectionPort(pair)
	}

	chain, err := r.FindContainingChain(group.ID)
	if err != nil {
		return nil, err
	}
	var resolved *model.InspectionPortGroup
	if chain != nil {
		sfc, err := r.ResolveChain(chain)
		if err != nil {
			return nil, err
		}
		resolved = sfc.Group(group.ID)
	}
	if resolved == nil {
		if resolved, err = r.ResolveGroup(group); err != nil {
			return nil, err
		}
	}
	if port := resolved.Port(pair.ID); port != nil {
		return port, nil
	}
	port, err := r.inspectionPort(pair)
	if err != nil {
		return nil, err
	}
	port.Parent = group.ID
	return port, nil
}

// ValidateGroupList checks that every listed group exists and is not a member
// of any chain other than <ownChainID> (empty when creating a new chain).
func (r *Reconciler) ValidateGroupList(groupIDs []string, ownChainID string) error {
	if len(groupIDs) == 0 {
		return sfcerr.NullArgument("Port Pair Group member list")
	}
	chains, err := r.Neutron.ListPortChains()
	if err != nil {
		return err
	}

	for _, groupID := range groupIDs {
		if groupID == "" {
			return sfcerr.NullArgument("Port Pair Group Id")
		}
		group, err := r.Neutron.GetPortPairGroup(groupID)
		if err != nil {
			return errors.Wrapf(err, "failed to validate port pair group %s", groupID)
		}
		if group == nil {
			return sfcerr.NotFoundByID("Port Pair Group", groupID)
		}
		for _, chain := range chains {
			if chain.ID == ownChainID || !neutron.Contains(chain.PortPairGroups, groupID) {
				continue
			}
			return sfcerr.Conflictf("Port Pair Group Id %s is already chained to SFC Id : %s", groupID, chain.ID)
		}
	}
	return nil
}

// StripHostPrefix removes the prefix length of a single-host CIDR
// ("10.0.0.9/32" -> "10.0.0.9", "fd00::9/128" -> "fd00::9").
// Any other input is returned unchanged.
func StripHostPrefix(prefix string) string {
	if !strings.Contains(prefix, "/") {
		return prefix
	}
	ip, network, err := net.ParseCIDR(prefix)
	if err != nil || cidr.AddressCount(network) != 1 {
		return prefix
	}
	return ip.String()
}

func (r *Reconciler) pairsByID() (map[string]*neutron.PortPair, error) {
	pairs, err := r.Neutron.ListPortPairs()
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*neutron.PortPair, len(pairs))
	for _, pair := range pairs {
		byID[pair.ID] = pair
	}
	return byID, nil
}

func (r *Reconciler) resolveGroup(group *neutron.PortPairGroup, pairs map[string]*neutron.PortPair) (
	*model.InspectionPortGroup, error) {

	resolved := &model.InspectionPortGroup{ID: group.ID}
	for _, pairID := range group.PortPairs {
		pair, found := pairs[pairID]
		if !found {
			r.Log.Errorf("Port pair %s listed for port pair group %s does not exist!", pairID, group.ID)
			continue
		}
		port, err := r.inspectionPort(pair)
		if err != nil {
			return nil, err
		}
		resolved.AddPort(port)
	}
	return resolved, nil
}

func (r *Reconciler) inspectionPort(pair *neutron.PortPair) (*model.InspectionPort, error) {
	ingress, err := r.NetworkElement(pair.Ingress, pair.ID)
	if err != nil {
		return nil, err
	}
	egress, err := r.NetworkElement(pair.Egress, pair.ID)
	if err != nil {
		return nil, err
	}
	return &model.InspectionPort{ID: pair.ID, Ingress: ingress, Egress: egress}, nil
}
