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

package hook

import (
	"fmt"

	"github.com/ligato/cn-infra/logging"
	"github.com/pkg/errors"

	"github.com/contiv/nsfc/plugins/nsfc/model"
	"github.com/contiv/nsfc/plugins/nsfc/neutron"
	"github.com/contiv/nsfc/plugins/nsfc/reconciler"
	"github.com/contiv/nsfc/plugins/nsfc/sfcerr"
)

// State of an inspected port with respect to hooking.
type State struct {
	Hooked bool
	HookID string
}

// String converts State into a human-readable string.
func (s State) String() string {
	if !s.Hooked {
		return "UNHOOKED"
	}
	return fmt.Sprintf("HOOKED(%s)", s.HookID)
}

// Manager drives the lifecycle of inspection hooks.
//
// A hook is a flow classifier listed by a port chain. The protected port
// refers to its hook through the binding profile, which makes
// "is this port hooked" a single get call.
type Manager struct {
	Deps
}

// Deps lists dependencies of the Manager.
type Deps struct {
	Log        logging.Logger
	Neutron    neutron.API
	Reconciler *reconciler.Reconciler

	// HookProfileKey is the key of the port binding profile holding the hook id.
	HookProfileKey string
}

// NewManager returns a new hook manager.
func NewManager(deps Deps) *Manager {
	return &Manager{Deps: deps}
}

// State returns the hooking state of the given port. A tag referring to a flow
// classifier that no longer exists is cleared and the port is reported unhooked.
func (m *Manager) State(portID string) (State, error) {
	if portID == "" {
		return State{}, sfcerr.NullArgument("Inspected port")
	}
	port, err := m.Neutron.GetPort(portID)
	if err != nil {
		return State{}, err
	}
	if port == nil {
		return State{}, sfcerr.NotFoundByID("Inspected port", portID)
	}
	hookID := port.ProfileValue(m.HookProfileKey)
	if hookID == "" {
		return State{}, nil
	}
	classifier, err := m.Neutron.GetFlowClassifier(hookID)
	if err != nil {
		return State{}, err
	}
	if classifier == nil {
		m.Log.Warnf("Inspection hook %s for inspected port %s no longer exists", hookID, portID)
		if err := m.setHook(port, ""); err != nil {
			return State{}, err
		}
		return State{}, nil
	}
	return State{Hooked: true, HookID: hookID}, nil
}

// Install binds the inspected port to the chain through a new flow classifier
// and returns the hook id. Installing a second hook for the same port fails
// with a conflict.
func (m *Manager) Install(inspected *model.NetworkElement, chainID string) (string, error) {
	if inspected == nil || inspected.ID == "" {
		return "", sfcerr.NullArgument("Inspected port")
	}
	if chainID == "" {
		return "", sfcerr.NullArgument("Service Function Chain")
	}
	if len(inspected.PortIPs) == 0 {
		return "", sfcerr.InvalidArgumentf("Inspected port %s has no address to protect!", inspected.ID)
	}
	m.Log.Infof("Installing inspection hook for inspected port %s and chain %s", inspected.ID, chainID)

	chain, err := m.Neutron.GetPortChain(chainID)
	if err != nil {
		return "", err
	}
	if chain == nil {
		return "", sfcerr.NotFoundByID("Service Function Chain", chainID)
	}
	if len(chain.PortPairGroups) == 0 {
		return "", sfcerr.InvalidArgumentf("cannot install inspection hook with empty port chain %s", chainID)
	}
	sfc, err := m.Reconciler.ResolveChain(chain)
	if err != nil {
		return "", err
	}
	source, destination, err := chainEndpoints(sfc)
	if err != nil {
		return "", err
	}

	state, err := m.State(inspected.ID)
	if err != nil {
		return "", err
	}
	if state.Hooked {
		return "", sfcerr.Conflictf("found existing inspection hook %s for inspected port %s",
			state.HookID, inspected.ID)
	}

	classifier, err := m.Neutron.CreateFlowClassifier(&neutron.FlowClassifier{
		DestinationIPPrefix:    inspected.PortIPs[0],
		LogicalSourcePort:      source,
		LogicalDestinationPort: destination,
	})
	if err != nil {
		return "", err
	}

	chain.FlowClassifiers = append(chain.FlowClassifiers, classifier.ID)
	if _, err := m.Neutron.UpdatePortChain(chain); err != nil {
		return "", errors.Wrapf(err, "failed to attach hook %s to chain %s", classifier.ID, chainID)
	}
	port, err := m.Neutron.GetPort(inspected.ID)
	if err != nil {
		return "", err
	}
	if port == nil {
		m.Log.Warnf("Inspected port %s disappeared, inspection hook %s installed without the port tag",
			inspected.ID, classifier.ID)
	} else if err := m.setHook(port, classifier.ID); err != nil {
		return "", err
	}
	m.Log.Infof("Inspection hook %s installed (%s)", classifier.ID, classifier)
	return classifier.ID, nil
}

// Update moves the hook to another chain. The protected port of a hook cannot
// be changed: all addresses of <inspected> must belong to the port currently
// protected by the hook. Moving a hook to the chain it already belongs to is a no-op.
//
// The old and the new chain are persisted one after another. If the second
// persist fails, the hook is left detached from both chains.
func (m *Manager) Update(hookID string, inspected *model.NetworkElement, chainID string) error {
	if hookID == "" {
		return sfcerr.NullArgument("Inspection Hook Id")
	}
	if inspected == nil || inspected.ID == "" {
		return sfcerr.NullArgument("Inspected port")
	}
	if chainID == "" {
		return sfcerr.NullArgument("Service Function Chain")
	}
	m.Log.Infof("Updating inspection hook %s (inspected port %s, chain %s)", hookID, inspected.ID, chainID)

	classifier, err := m.Neutron.GetFlowClassifier(hookID)
	if err != nil {
		return err
	}
	if classifier == nil {
		return sfcerr.NotFoundByID("Inspection Hook", hookID)
	}

	protected, err := m.Reconciler.FindProtectedPort(classifier)
	if err != nil {
		return err
	}
	if protected == nil {
		return sfcerr.Conflictf("inspection hook %s does not protect any port", hookID)
	}
	protectedIPs := make(map[string]struct{})
	for _, ip := range protected.IPAddresses() {
		protectedIPs[ip] = struct{}{}
	}
	for _, ip := range inspected.PortIPs {
		if _, ok := protectedIPs[ip]; !ok {
			return sfcerr.Conflictf("cannot update inspected port from %s to %s for the inspection hook %s",
				protected.ID, inspected.ID, hookID)
		}
	}

	target, err := m.Neutron.GetPortChain(chainID)
	if err != nil {
		return err
	}
	if target == nil {
		return sfcerr.NotFoundByID("Service Function Chain", chainID)
	}
	current, err := m.Reconciler.FindContainingChainForHook(hookID)
	if err != nil {
		return err
	}
	if current != nil && current.ID == target.ID {
		return nil
	}

	if current != nil {
		current.FlowClassifiers = neutron.Without(current.FlowClassifiers, hookID)
		if _, err := m.Neutron.UpdatePortChain(current); err != nil {
			return errors.Wrapf(err, "failed to detach hook %s from chain %s", hookID, current.ID)
		}
	}
	if !neutron.Contains(target.FlowClassifiers, hookID) {
		target.FlowClassifiers = append(target.FlowClassifiers, hookID)
		if _, err := m.Neutron.UpdatePortChain(target); err != nil {
			return errors.Wrapf(err, "failed to attach hook %s to chain %s", hookID, target.ID)
		}
	}
	return nil
}

// Remove deletes the hook. Removing a hook that does not exist is not an error,
// neither is a failure to delete the flow classifier itself (it is logged only).
func (m *Manager) Remove(hookID string) error {
	if hookID == "" {
		m.Log.Warn("Attempt to remove an inspection hook with empty id")
		return nil
	}
	classifier, err := m.Neutron.GetFlowClassifier(hookID)
	if err != nil {
		return err
	}
	if classifier == nil {
		m.Log.Warnf("Inspection hook %s does not exist", hookID)
		return nil
	}

	chain, err := m.Reconciler.FindContainingChainForHook(hookID)
	if err != nil {
		return err
	}
	if chain != nil {
		chain.FlowClassifiers = neutron.Without(chain.FlowClassifiers, hookID)
		if _, err := m.Neutron.UpdatePortChain(chain); err != nil {
			return errors.Wrapf(err, "failed to detach hook %s from chain %s", hookID, chain.ID)
		}
	}

	protected, err := m.Reconciler.FindProtectedPort(classifier)
	if err != nil {
		return err
	}
	if protected != nil {
		if err := m.setHook(protected, ""); err != nil {
			return err
		}
	} else {
		m.Log.Warnf("No port protected by inspection hook %s", hookID)
	}

	if err := m.Neutron.DeleteFlowClassifier(hookID); err != nil {
		m.Log.Errorf("Error removing flow classifier %s: %v", hookID, err)
	}
	return nil
}

// Get returns the hook with the owning chain resolved, nil if it does not exist.
func (m *Manager) Get(hookID string) (*model.InspectionHook, error) {
	if hookID == "" {
		m.Log.Warn("Attempt to get an inspection hook with empty id")
		return nil, nil
	}
	classifier, err := m.Neutron.GetFlowClassifier(hookID)
	if err != nil {
		return nil, err
	}
	if classifier == nil {
		return nil, nil
	}

	hook := &model.InspectionHook{HookID: classifier.ID}
	protected, err := m.Reconciler.FindProtectedPort(classifier)
	if err != nil {
		return nil, err
	}
	if protected != nil {
		hook.InspectedPort = reconciler.ToNetworkElement(protected, "")
	} else {
		m.Log.Warnf("No port protected by inspection hook %s", hookID)
	}

	chain, err := m.Reconciler.FindContainingChainForHook(hookID)
	if err != nil {
		return nil, err
	}
	if chain != nil {
		sfc, err := m.Reconciler.ResolveChain(chain)
		if err != nil {
			return nil, err
		}
		hook.Chain = sfc
		sfc.Hooks = append(sfc.Hooks, hook)
	}
	return hook, nil
}

// setHook stores the hook id in the binding profile of the port, or removes it
// if <hookID> is empty. Other keys of the profile are preserved.
func (m *Manager) setHook(port *neutron.Port, hookID string) error {
	profile := make(map[string]interface{}, len(port.Profile)+1)
	for k, v := range port.Profile {
		profile[k] = v
	}
	if hookID == "" {
		delete(profile, m.HookProfileKey)
	} else {
		profile[m.HookProfileKey] = hookID
	}
	if _, err := m.Neutron.UpdatePortProfile(port.ID, profile); err != nil {
		return errors.Wrapf(err, "failed to tag port %s with hook '%s'", port.ID, hookID)
	}
	return nil
}

// chainEndpoints returns the logical entry (first ingress of the first group)
// and exit (first egress of the last group) of the chain.
func chainEndpoints(sfc *model.ServiceFunctionChain) (source, destination string, err error) {
	if len(sfc.Groups) == 0 {
		return "", "", sfcerr.InvalidArgumentf("no port pair group of chain %s exists", sfc.ID)
	}
	first := sfc.Groups[0]
	last := sfc.Groups[len(sfc.Groups)-1]
	if len(first.Ports) == 0 || first.Ports[0].Ingress == nil {
		return "", "", sfcerr.InvalidArgumentf("first group %s of chain %s has no ingress port", first.ID, sfc.ID)
	}
	if len(last.Ports) == 0 || last.Ports[0].Egress == nil {
		return "", "", sfcerr.InvalidArgumentf("last group %s of chain %s has no egress port", last.ID, sfc.ID)
	}
	return first.Ports[0].Ingress.ID, last.Ports[0].Egress.ID, nil
}
