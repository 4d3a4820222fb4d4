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

package redirection

import (
	"github.com/ligato/cn-infra/logging"
	"github.com/pkg/errors"

	"github.com/contiv/nsfc/plugins/nsfc/config"
	"github.com/contiv/nsfc/plugins/nsfc/hook"
	"github.com/contiv/nsfc/plugins/nsfc/model"
	"github.com/contiv/nsfc/plugins/nsfc/neutron"
	"github.com/contiv/nsfc/plugins/nsfc/reconciler"
	"github.com/contiv/nsfc/plugins/nsfc/sfcerr"
)

// Redirection implements API over the typed Neutron client.
//
// Every operation re-reads the state it needs from the backend, nothing
// is cached between calls. Multi-step mutations are not atomic, a failure
// in the middle leaves the already applied steps in place.
type Redirection struct {
	Deps
}

// Deps lists dependencies of Redirection.
type Deps struct {
	Log        logging.Logger
	Config     *config.Config
	Neutron    neutron.API
	Reconciler *reconciler.Reconciler
	Hooks      *hook.Manager

	// optional
	Snapshots SnapshotRecorder
}

var _ API = (*Redirection)(nil)

// NewRedirection returns a new redirection API.
func NewRedirection(deps Deps) *Redirection {
	if deps.Config == nil {
		deps.Config = config.DefaultConfig()
	}
	return &Redirection{Deps: deps}
}

// GetInspectionPort returns the inspection port with its group and chain.
func (r *Redirection) GetInspectionPort(port *model.InspectionPort) (*model.InspectionPort, error) {
	if port == nil {
		r.Log.Warn("Attempt to find nil inspection port")
		return nil, nil
	}

	var (
		pair *neutron.PortPair
		err  error
	)
	if port.ID != "" {
		if pair, err = r.Neutron.GetPortPair(port.ID); err != nil {
			return nil, err
		}
	}
	if pair == nil {
		r.Log.Warnf("Failed to retrieve inspection port by id, trying by ingress and egress: %s", port)
		if pair, err = r.Reconciler.FindPairByEndpoints(port.IngressID(), port.EgressID()); err != nil {
			return nil, err
		}
	}
	if pair == nil {
		return nil, nil
	}
	return r.Reconciler.ResolveFromPair(pair)
}

// RegisterInspectionPort registers the inspection port, see API.
func (r *Redirection) RegisterInspectionPort(port *model.InspectionPort) (*model.InspectionPort, error) {
	if port == nil {
		return nil, sfcerr.NullArgument("Inspection Port")
	}
	if port.Ingress == nil || port.Ingress.ID == "" {
		return nil, sfcerr.NullArgument("Inspection Port ingress")
	}
	if port.Egress == nil || port.Egress.ID == "" {
		return nil, sfcerr.NullArgument("Inspection Port egress")
	}

	var group *neutron.PortPairGroup
	if groupID := port.ParentID(); groupID != "" {
		var err error
		if group, err = r.Neutron.GetPortPairGroup(groupID); err != nil {
			return nil, err
		}
		if group == nil {
			return nil, sfcerr.NotFoundByID("Port Pair Group", groupID)
		}
	}

	pair, err := r.Reconciler.FindPairByEndpoints(port.Ingress.ID, port.Egress.ID)
	if err != nil {
		return nil, err
	}
	if pair != nil {
		// a pair is owned by one group at a time
		current, err := r.Reconciler.FindContainingGroup(pair.ID)
		if err != nil {
			return nil, err
		}
		switch {
		case current == nil:
		case group == nil:
			group = current
		case current.ID != group.ID:
			return nil, sfcerr.Conflictf("port pair %s already belongs to port pair group %s, cannot register it into %s",
				pair.ID, current.ID, group.ID)
		}
	} else {
		pair, err = r.Neutron.CreatePortPair(&neutron.PortPair{
			Ingress:     port.Ingress.ID,
			Egress:      port.Egress.ID,
			Description: r.Config.PortPairDescription,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create port pair for ingress %s and egress %s",
				port.Ingress.ID, port.Egress.ID)
		}
		r.Log.Infof("Created port pair %s", pair)
	}

	registered := &model.InspectionPort{
		ID:      pair.ID,
		Ingress: projection(port.Ingress, pair.ID),
		Egress:  projection(port.Egress, pair.ID),
	}

	var resolved *model.InspectionPortGroup
	if group == nil {
		group, err = r.Neutron.CreatePortPairGroup(&neutron.PortPairGroup{PortPairs: []string{pair.ID}})
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create port pair group for port pair %s", pair.ID)
		}
		r.Log.Infof("Created port pair group %s", group)
		resolved = &model.InspectionPortGroup{ID: group.ID}
	} else {
		if resolved, err = r.Reconciler.ResolveGroup(group); err != nil {
			return nil, err
		}
		if !neutron.Contains(group.PortPairs, pair.ID) {
			group.PortPairs = append(group.PortPairs, pair.ID)
		}
		if _, err = r.Neutron.UpdatePortPairGroup(group); err != nil {
			return nil, errors.Wrapf(err, "failed to add port pair %s into group %s", pair.ID, group.ID)
		}
	}
	replacePort(resolved, registered)

	r.recordInspectionPort(registered)
	return registered, nil
}

// RemoveInspectionPort removes the inspection port, see API.
func (r *Redirection) RemoveInspectionPort(port *model.InspectionPort) error {
	if port == nil || port.ID == "" {
		r.Log.Warn("Attempt to remove nil inspection port")
		return nil
	}
	pair, err := r.Neutron.GetPortPair(port.ID)
	if err != nil {
		return err
	}
	if pair == nil {
		r.Log.Warnf("Attempt to remove nonexistent inspection port %s (ingress %s, egress %s)",
			port.ID, port.IngressID(), port.EgressID())
		return nil
	}

	group, err := r.Reconciler.FindContainingGroup(pair.ID)
	if err != nil {
		return err
	}
	if group != nil {
		group.PortPairs = neutron.Without(group.PortPairs, pair.ID)
		if len(group.PortPairs) > 0 {
			if _, err := r.Neutron.UpdatePortPairGroup(group); err != nil {
				return errors.Wrapf(err, "failed to remove port pair %s from group %s", pair.ID, group.ID)
			}
		} else if err := r.removeGroup(group); err != nil {
			return err
		}
	}

	if err := r.Neutron.DeletePortPair(pair.ID); err != nil {
		return errors.Wrapf(err, "failed to delete port pair %s", pair.ID)
	}
	r.Log.Infof("Removed inspection port %s", pair.ID)
	r.forget("inspection port", pair.ID, r.snapshots().ForgetInspectionPort)
	return nil
}

// removeGroup detaches the (already emptied) group from its chain and deletes it.
func (r *Redirection) removeGroup(group *neutron.PortPairGroup) error {
	chain, err := r.Reconciler.FindContainingChain(group.ID)
	if err != nil {
		return err
	}
	if chain != nil {
		chain.PortPairGroups = neutron.Without(chain.PortPairGroups, group.ID)
		if _, err := r.Neutron.UpdatePortChain(chain); err != nil {
			return errors.Wrapf(err, "failed to remove port pair group %s from chain %s", group.ID, chain.ID)
		}
	}
	if err := r.Neutron.DeletePortPairGroup(group.ID); err != nil {
		return errors.Wrapf(err, "failed to delete port pair group %s", group.ID)
	}
	r.Log.Infof("Removed empty port pair group %s", group.ID)
	return nil
}

// InstallInspectionHook installs a new inspection hook, see API.
func (r *Redirection) InstallInspectionHook(inspected *model.NetworkElement, chainRef model.Element, tag int64,
	encType model.TagEncapsulationType, order int64, policy model.FailurePolicyType) (string, error) {

	chainID, err := chainRefID(chainRef)
	if err != nil {
		return "", err
	}
	if tag != 0 || order != 0 || encType != "" || (policy != "" && policy != model.NA) {
		r.Log.Debugf("Ignoring tag %d, encapsulation %s, order %d and failure policy %s of the hook",
			tag, encType, order, policy)
	}
	hookID, err := r.Hooks.Install(inspected, chainID)
	if err != nil {
		return "", err
	}
	r.recordHook(&model.InspectionHook{
		HookID:            hookID,
		InspectedPort:     inspected,
		Chain:             &model.ServiceFunctionChain{ID: chainID},
		Tag:               tag,
		Order:             order,
		EncapsulationType: encType,
		FailurePolicy:     policy,
	})
	return hookID, nil
}

// UpdateInspectionHook moves the hook to another chain, see API.
func (r *Redirection) UpdateInspectionHook(hook *model.InspectionHook) error {
	if hook == nil || hook.HookID == "" {
		return sfcerr.NullArgument("Inspection Hook")
	}
	if hook.Chain == nil {
		return sfcerr.NullArgument("Service Function Chain")
	}
	if err := r.Hooks.Update(hook.HookID, hook.InspectedPort, hook.Chain.ID); err != nil {
		return err
	}
	r.recordHook(hook)
	return nil
}

// RemoveInspectionHook removes the hook, see API.
func (r *Redirection) RemoveInspectionHook(hookID string) error {
	if err := r.Hooks.Remove(hookID); err != nil {
		return err
	}
	if hookID != "" {
		r.forget("inspection hook", hookID, r.snapshots().ForgetHook)
	}
	return nil
}

// GetInspectionHook returns the hook, see API.
func (r *Redirection) GetInspectionHook(hookID string) (*model.InspectionHook, error) {
	return r.Hooks.Get(hookID)
}

// RegisterNetworkElement creates a new chain, see API.
func (r *Redirection) RegisterNetworkElement(groupRefs []model.Element) (*model.ServiceFunctionChain, error) {
	groupIDs, err := groupRefIDs(groupRefs, "Port Pair Group member list")
	if err != nil {
		return nil, err
	}
	if err := r.Reconciler.ValidateGroupList(groupIDs, ""); err != nil {
		return nil, err
	}

	chain, err := r.Neutron.CreatePortChain(&neutron.PortChain{
		Description:     r.Config.PortChainDescription,
		PortPairGroups:  groupIDs,
		FlowClassifiers: []string{},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create port chain")
	}
	r.Log.Infof("Created port chain %s", chain)

	sfc := chainWithGroups(chain.ID, groupIDs)
	r.recordChain(sfc)
	return sfc, nil
}

// UpdateNetworkElement replaces the group list of the chain, see API.
//
// The chain is first persisted with an empty group list and then with the new
// one. The new list is validated beforehand, so a conflict never leaves
// the chain emptied.
func (r *Redirection) UpdateNetworkElement(chainRef model.Element, groupRefs []model.Element) (
	*model.ServiceFunctionChain, error) {

	chainID, err := chainRefID(chainRef)
	if err != nil {
		return nil, err
	}
	groupIDs, err := groupRefIDs(groupRefs, "Port Pair Group update member list")
	if err != nil {
		return nil, err
	}
	chain, err := r.Neutron.GetPortChain(chainID)
	if err != nil {
		return nil, err
	}
	if chain == nil {
		return nil, sfcerr.NotFoundByID("Service Function Chain", chainID)
	}
	if err := r.Reconciler.ValidateGroupList(groupIDs, chain.ID); err != nil {
		return nil, err
	}

	chain.PortPairGroups = []string{}
	if _, err := r.Neutron.UpdatePortChain(chain); err != nil {
		return nil, errors.Wrapf(err, "failed to clear port pair groups of chain %s", chain.ID)
	}
	chain.PortPairGroups = groupIDs
	updated, err := r.Neutron.UpdatePortChain(chain)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to set port pair groups of chain %s", chain.ID)
	}
	r.Log.Infof("Updated port chain %s", updated)

	sfc := chainWithGroups(updated.ID, groupIDs)
	r.recordChain(sfc)
	return sfc, nil
}

// DeleteNetworkElement deletes the chain, see API.
func (r *Redirection) DeleteNetworkElement(chainRef model.Element) error {
	chainID, err := chainRefID(chainRef)
	if err != nil {
		return err
	}
	chain, err := r.Neutron.GetPortChain(chainID)
	if err != nil {
		return err
	}
	if chain == nil {
		return sfcerr.NotFoundByID("Service Function Chain", chainID)
	}
	if err := r.Neutron.DeletePortChain(chain.ID); err != nil {
		return errors.Wrapf(err, "failed to delete Service Function Chain %s", chain.ID)
	}
	r.Log.Infof("Deleted port chain %s", chain.ID)
	r.forget("chain", chain.ID, r.snapshots().ForgetChain)
	return nil
}

// GetNetworkElements returns the groups of the chain, see API.
func (r *Redirection) GetNetworkElements(chainRef model.Element) ([]*model.InspectionPortGroup, error) {
	chainID, err := chainRefID(chainRef)
	if err != nil {
		return nil, err
	}
	chain, err := r.Neutron.GetPortChain(chainID)
	if err != nil {
		return nil, err
	}
	if chain == nil {
		return nil, sfcerr.NotFoundByID("Service Function Chain", chainID)
	}
	sfc, err := r.Reconciler.ResolveChain(chain)
	if err != nil {
		return nil, err
	}
	groups := sfc.Groups
	if groups == nil {
		groups = []*model.InspectionPortGroup{}
	}
	return groups, nil
}

// Capabilities returns NeutronSFCCapabilities.
func (r *Redirection) Capabilities() model.Capabilities {
	return NeutronSFCCapabilities
}

// chainRefID returns the id of the chain referenced by <ref>. A bare network
// element may stand for the chain.
func chainRefID(ref model.Element) (string, error) {
	switch chain := ref.(type) {
	case *model.ServiceFunctionChain:
		if chain != nil && chain.ID != "" {
			return chain.ID, nil
		}
	case *model.NetworkElement:
		if chain != nil && chain.ID != "" {
			return chain.ID, nil
		}
	case nil:
	default:
		return "", sfcerr.InvalidArgumentf("%s cannot reference a %s", ref.Kind(), model.ServiceFunctionChainKind)
	}
	return "", sfcerr.NullArgument("Service Function Chain Id")
}

// groupRefIDs returns ids of the groups referenced by <refs>, in order.
func groupRefIDs(refs []model.Element, listName string) ([]string, error) {
	if len(refs) == 0 {
		return nil, sfcerr.NullArgument(listName)
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		var id string
		switch group := ref.(type) {
		case *model.InspectionPortGroup:
			if group != nil {
				id = group.ID
			}
		case *model.NetworkElement:
			if group != nil {
				id = group.ID
			}
		case nil:
		default:
			return nil, sfcerr.InvalidArgumentf("%s cannot reference a %s", ref.Kind(), model.InspectionPortGroupKind)
		}
		if id == "" {
			return nil, sfcerr.NullArgument("Port Pair Group Id")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func chainWithGroups(chainID string, groupIDs []string) *model.ServiceFunctionChain {
	sfc := &model.ServiceFunctionChain{ID: chainID}
	for _, id := range groupIDs {
		sfc.AddGroup(&model.InspectionPortGroup{ID: id})
	}
	return sfc
}

// projection copies the caller-supplied element under the given port pair.
func projection(element *model.NetworkElement, pairID string) *model.NetworkElement {
	return &model.NetworkElement{
		ID:           element.ID,
		MACAddresses: element.MACAddresses,
		PortIPs:      element.PortIPs,
		Parent:       pairID,
	}
}

// replacePort puts <port> into the group in place of the resolved port with
// the same id, or appends it.
func replacePort(group *model.InspectionPortGroup, port *model.InspectionPort) {
	for i, member := range group.Ports {
		if member.ID == port.ID {
			group.Ports[i] = port
			port.Group = group
			port.Parent = group.ID
			return
		}
	}
	group.AddPort(port)
}

func (r *Redirection) snapshots() SnapshotRecorder {
	if r.Snapshots == nil {
		return discard{}
	}
	return r.Snapshots
}

func (r *Redirection) recordChain(sfc *model.ServiceFunctionChain) {
	if err := r.snapshots().RecordChain(sfc); err != nil {
		r.Log.Warnf("Failed to record snapshot of chain %s: %v", sfc.ID, err)
	}
}

func (r *Redirection) recordInspectionPort(port *model.InspectionPort) {
	if err := r.snapshots().RecordInspectionPort(port); err != nil {
		r.Log.Warnf("Failed to record snapshot of inspection port %s: %v", port.ID, err)
	}
}

func (r *Redirection) recordHook(hook *model.InspectionHook) {
	if err := r.snapshots().RecordHook(hook); err != nil {
		r.Log.Warnf("Failed to record snapshot of inspection hook %s: %v", hook.HookID, err)
	}
}

func (r *Redirection) forget(what, id string, forget func(string) error) {
	if err := forget(id); err != nil {
		r.Log.Warnf("Failed to forget snapshot of %s %s: %v", what, id, err)
	}
}

// discard is used when no snapshot recorder is configured.
type discard struct{}

func (discard) RecordChain(*model.ServiceFunctionChain) error    { return nil }
func (discard) ForgetChain(string) error                         { return nil }
func (discard) RecordInspectionPort(*model.InspectionPort) error { return nil }
func (discard) ForgetInspectionPort(string) error                { return nil }
func (discard) RecordHook(*model.InspectionHook) error           { return nil }
func (discard) ForgetHook(string) error                          { return nil }
