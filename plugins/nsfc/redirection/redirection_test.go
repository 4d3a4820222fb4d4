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

package redirection_test

import (
	"fmt"
	"testing"

	"github.com/ligato/cn-infra/logging/logrus"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"

	mockneutron "github.com/contiv/nsfc/mock/neutron"
	"github.com/contiv/nsfc/plugins/nsfc/config"
	"github.com/contiv/nsfc/plugins/nsfc/hook"
	"github.com/contiv/nsfc/plugins/nsfc/model"
	"github.com/contiv/nsfc/plugins/nsfc/neutron"
	"github.com/contiv/nsfc/plugins/nsfc/reconciler"
	"github.com/contiv/nsfc/plugins/nsfc/redirection"
	"github.com/contiv/nsfc/plugins/nsfc/sfcerr"
)

type fixture struct {
	backend   *mockneutron.MockBackend
	client    *neutron.Client
	snapshots *recorder
	api       *redirection.Redirection
}

func newFixture() *fixture {
	log := logrus.DefaultLogger()
	cfg := config.DefaultConfig()
	backend := mockneutron.NewMockBackend()
	client := neutron.NewClient(backend, log, nil)
	rec := reconciler.NewReconciler(reconciler.Deps{Log: log, Neutron: client, HookProfileKey: cfg.HookProfileKey})
	f := &fixture{
		backend:   backend,
		client:    client,
		snapshots: newRecorder(),
	}
	f.api = redirection.NewRedirection(redirection.Deps{
		Log:        log,
		Config:     cfg,
		Neutron:    client,
		Reconciler: rec,
		Hooks: hook.NewManager(hook.Deps{
			Log:            log,
			Neutron:        client,
			Reconciler:     rec,
			HookProfileKey: cfg.HookProfileKey,
		}),
		Snapshots: f.snapshots,
	})

	for i := 1; i <= 8; i++ {
		backend.AddPort(fmt.Sprintf("p%d", i), fmt.Sprintf("fa:16:3e:00:00:0%d", i), fmt.Sprintf("10.0.0.%d", i))
	}
	backend.AddPort("vm1", "fa:16:3e:00:00:09", "10.0.0.9")
	return f
}

func element(id string) *model.NetworkElement {
	return &model.NetworkElement{ID: id, PortIPs: []string{"10.0.0." + id[1:]}}
}

func (f *fixture) register(ingress, egress, groupID string) *model.InspectionPort {
	port, err := f.api.RegisterInspectionPort(&model.InspectionPort{
		Ingress: element(ingress),
		Egress:  element(egress),
		Parent:  groupID,
	})
	Expect(err).To(BeNil())
	return port
}

func (f *fixture) groupPairs(groupID string) []string {
	group, err := f.client.GetPortPairGroup(groupID)
	Expect(err).To(BeNil())
	Expect(group).ToNot(BeNil())
	return group.PortPairs
}

func (f *fixture) chainGroups(chainID string) []string {
	chain, err := f.client.GetPortChain(chainID)
	Expect(err).To(BeNil())
	Expect(chain).ToNot(BeNil())
	return chain.PortPairGroups
}

func groupRefs(ids ...string) []model.Element {
	var refs []model.Element
	for _, id := range ids {
		refs = append(refs, &model.InspectionPortGroup{ID: id})
	}
	return refs
}

// recorder is an in-memory SnapshotRecorder.
type recorder struct {
	chains map[string]*model.ServiceFunctionChain
	ports  map[string]*model.InspectionPort
	hooks  map[string]*model.InspectionHook
	err    error
}

func newRecorder() *recorder {
	return &recorder{
		chains: make(map[string]*model.ServiceFunctionChain),
		ports:  make(map[string]*model.InspectionPort),
		hooks:  make(map[string]*model.InspectionHook),
	}
}

func (r *recorder) RecordChain(chain *model.ServiceFunctionChain) error {
	if r.err != nil {
		return r.err
	}
	r.chains[chain.ID] = chain
	return nil
}

func (r *recorder) ForgetChain(id string) error {
	delete(r.chains, id)
	return r.err
}

func (r *recorder) RecordInspectionPort(port *model.InspectionPort) error {
	if r.err != nil {
		return r.err
	}
	r.ports[port.ID] = port
	return nil
}

func (r *recorder) ForgetInspectionPort(id string) error {
	delete(r.ports, id)
	return r.err
}

func (r *recorder) RecordHook(hook *model.InspectionHook) error {
	if r.err != nil {
		return r.err
	}
	r.hooks[hook.HookID] = hook
	return nil
}

func (r *recorder) ForgetHook(id string) error {
	delete(r.hooks, id)
	return r.err
}

func TestRegisterInspectionPortIntoNewAndExistingGroup(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	port1, err := f.api.RegisterInspectionPort(&model.InspectionPort{
		Ingress: &model.NetworkElement{ID: "p1", PortIPs: []string{"10.0.0.1"}},
		Egress:  &model.NetworkElement{ID: "p2", PortIPs: []string{"10.0.0.2"}},
	})
	Expect(err).To(BeNil())
	Expect(port1.ID).To(Equal("pp1"))
	Expect(port1.ParentID()).To(Equal("g1"))
	Expect(port1.Group.ID).To(Equal("g1"))
	Expect(port1.Ingress.Parent).To(Equal("pp1"))
	Expect(port1.Egress.PortIPs).To(Equal([]string{"10.0.0.2"}))

	pair, err := f.client.GetPortPair("pp1")
	Expect(err).To(BeNil())
	Expect(pair.Ingress).To(Equal("p1"))
	Expect(pair.Egress).To(Equal("p2"))
	Expect(pair.Description).To(Equal("OSC-registered port pair"))

	port2 := f.register("p3", "p4", "g1")
	Expect(port2.ID).To(Equal("pp2"))
	Expect(port2.ParentID()).To(Equal("g1"))
	Expect(port2.Group.Ports).To(HaveLen(2))
	Expect(port2.Group.Ports[1]).To(BeIdenticalTo(port2))

	Expect(f.groupPairs("g1")).To(Equal([]string{"pp1", "pp2"}))
	Expect(f.backend.PortPairGroupCount()).To(Equal(1))
	Expect(f.snapshots.ports).To(HaveKey("pp2"))
}

func TestRegisterInspectionPortReusesPair(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	f.register("p1", "p2", "")
	for i := 0; i < 3; i++ {
		port := f.register("p1", "p2", "g1")
		Expect(port.ID).To(Equal("pp1"))
		Expect(port.Group.Ports).To(HaveLen(1))
	}
	Expect(f.backend.PortPairCount()).To(Equal(1))
	Expect(f.backend.CallCount(neutron.PortPairsCollection, mockneutron.Create)).To(Equal(1))
	Expect(f.groupPairs("g1")).To(Equal([]string{"pp1"}))
}

func TestRegisterInspectionPortKeepsSingleOwner(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	f.register("p1", "p2", "")
	port := f.register("p1", "p2", "")
	Expect(port.ID).To(Equal("pp1"))
	Expect(port.ParentID()).To(Equal("g1"))
	Expect(f.backend.PortPairGroupCount()).To(Equal(1))
	Expect(f.groupPairs("g1")).To(Equal([]string{"pp1"}))

	// moving the pair into another group is refused
	f.register("p3", "p4", "")
	_, err := f.api.RegisterInspectionPort(&model.InspectionPort{
		Ingress: element("p1"),
		Egress:  element("p2"),
		Parent:  "g2",
	})
	Expect(sfcerr.IsConflict(err)).To(BeTrue())
	Expect(err.Error()).To(ContainSubstring("g1"))
	Expect(f.groupPairs("g2")).To(Equal([]string{"pp2"}))

	Expect(f.api.RemoveInspectionPort(&model.InspectionPort{ID: "pp1"})).To(Succeed())
	groups, err := f.client.ListPortPairGroups()
	Expect(err).To(BeNil())
	for _, group := range groups {
		Expect(group.PortPairs).ToNot(ContainElement("pp1"))
	}
	Expect(f.backend.PortPairGroupCount()).To(Equal(1))
}

func TestRegisterInspectionPortIntoUnknownGroup(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	_, err := f.api.RegisterInspectionPort(&model.InspectionPort{
		Ingress: element("p1"),
		Egress:  element("p2"),
		Parent:  "g42",
	})
	Expect(sfcerr.IsNotFound(err)).To(BeTrue())
	Expect(f.backend.PortPairCount()).To(Equal(0))

	_, err = f.api.RegisterInspectionPort(&model.InspectionPort{Ingress: element("p1")})
	Expect(sfcerr.IsInvalidArgument(err)).To(BeTrue())

	_, err = f.api.RegisterInspectionPort(nil)
	Expect(sfcerr.IsInvalidArgument(err)).To(BeTrue())
}

func TestRemoveInspectionPort(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	pp1 := f.register("p1", "p2", "")
	pp2 := f.register("p3", "p4", "g1")
	pp3 := f.register("p5", "p6", "g1")
	pp4 := f.register("p7", "p8", "")
	chain, err := f.api.RegisterNetworkElement(groupRefs("g1", "g2"))
	Expect(err).To(BeNil())

	t.Run("non-last pair", func(t *testing.T) {
		RegisterTestingT(t)
		Expect(f.api.RemoveInspectionPort(pp2)).To(Succeed())
		Expect(f.groupPairs("g1")).To(Equal([]string{pp1.ID, pp3.ID}))
		Expect(f.backend.PortPairCount()).To(Equal(3))
		Expect(f.chainGroups(chain.ID)).To(Equal([]string{"g1", "g2"}))
	})

	t.Run("last pair of a chained group", func(t *testing.T) {
		RegisterTestingT(t)
		Expect(f.api.RemoveInspectionPort(pp4)).To(Succeed())
		Expect(f.chainGroups(chain.ID)).To(Equal([]string{"g1"}))
		Expect(f.backend.PortPairGroupCount()).To(Equal(1))
		Expect(f.backend.PortPairCount()).To(Equal(2))
		Expect(f.snapshots.ports).ToNot(HaveKey(pp4.ID))
	})

	t.Run("unknown pair", func(t *testing.T) {
		RegisterTestingT(t)
		Expect(f.api.RemoveInspectionPort(pp4)).To(Succeed())
		Expect(f.api.RemoveInspectionPort(nil)).To(Succeed())
		Expect(f.backend.PortPairCount()).To(Equal(2))
	})
}

func TestRemoveLastPairOfUnchainedGroup(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	port := f.register("p1", "p2", "")
	Expect(f.api.RemoveInspectionPort(port)).To(Succeed())
	Expect(f.backend.PortPairGroupCount()).To(Equal(0))
	Expect(f.backend.PortPairCount()).To(Equal(0))
}

func TestGetInspectionPort(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	f.register("p1", "p2", "")
	f.register("p3", "p4", "")
	chain, err := f.api.RegisterNetworkElement(groupRefs("g1", "g2"))
	Expect(err).To(BeNil())

	port, err := f.api.GetInspectionPort(&model.InspectionPort{ID: "pp2"})
	Expect(err).To(BeNil())
	Expect(port.ID).To(Equal("pp2"))
	Expect(port.Ingress.ID).To(Equal("p3"))
	Expect(port.Ingress.MACAddresses).To(Equal([]string{"fa:16:3e:00:00:03"}))
	Expect(port.Group.ID).To(Equal("g2"))
	Expect(port.Group.Chain.ID).To(Equal(chain.ID))

	port, err = f.api.GetInspectionPort(&model.InspectionPort{Ingress: element("p1"), Egress: element("p2")})
	Expect(err).To(BeNil())
	Expect(port.ID).To(Equal("pp1"))

	port, err = f.api.GetInspectionPort(&model.InspectionPort{ID: "pp9", Ingress: element("p2"), Egress: element("p1")})
	Expect(err).To(BeNil())
	Expect(port).To(BeNil())

	port, err = f.api.GetInspectionPort(nil)
	Expect(err).To(BeNil())
	Expect(port).To(BeNil())
}

func TestRegisterNetworkElement(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	f.register("p1", "p2", "")
	f.register("p3", "p4", "")
	f.register("p5", "p6", "")

	chain, err := f.api.RegisterNetworkElement(groupRefs("g2", "g1"))
	Expect(err).To(BeNil())
	Expect(chain.GroupIDs()).To(Equal([]string{"g2", "g1"}))
	Expect(chain.Groups[0].Chain).To(BeIdenticalTo(chain))
	Expect(f.chainGroups(chain.ID)).To(Equal([]string{"g2", "g1"}))
	Expect(f.snapshots.chains).To(HaveKey(chain.ID))

	raw := f.backend.RawPortChain(chain.ID)
	Expect(raw.Description).To(Equal("Port Chain object created by OSC"))

	_, err = f.api.RegisterNetworkElement(groupRefs("g3", "g1"))
	Expect(sfcerr.IsConflict(err)).To(BeTrue())
	Expect(err.Error()).To(ContainSubstring("g1"))
	Expect(err.Error()).To(ContainSubstring(chain.ID))

	_, err = f.api.RegisterNetworkElement(nil)
	Expect(sfcerr.IsInvalidArgument(err)).To(BeTrue())

	_, err = f.api.RegisterNetworkElement(groupRefs("g3", "g9"))
	Expect(sfcerr.IsNotFound(err)).To(BeTrue())

	_, err = f.api.RegisterNetworkElement([]model.Element{&model.InspectionPort{ID: "pp1"}})
	Expect(sfcerr.IsInvalidArgument(err)).To(BeTrue())

	// bare network elements may reference groups
	other, err := f.api.RegisterNetworkElement([]model.Element{&model.NetworkElement{ID: "g3"}})
	Expect(err).To(BeNil())
	Expect(other.GroupIDs()).To(Equal([]string{"g3"}))
}

func TestUpdateNetworkElementKeepsOrder(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	f.register("p1", "p2", "")
	f.register("p3", "p4", "")
	f.register("p5", "p6", "")
	f.register("p7", "p8", "g3")
	chain, err := f.api.RegisterNetworkElement(groupRefs("g1", "g2"))
	Expect(err).To(BeNil())

	updated, err := f.api.UpdateNetworkElement(chain, groupRefs("g3", "g1"))
	Expect(err).To(BeNil())
	Expect(updated.GroupIDs()).To(Equal([]string{"g3", "g1"}))
	Expect(f.backend.CallCount(neutron.PortChainsCollection, mockneutron.Update)).To(Equal(2))

	groups, err := f.api.GetNetworkElements(&model.NetworkElement{ID: chain.ID})
	Expect(err).To(BeNil())
	Expect(groups).To(HaveLen(2))
	Expect(groups[0].ID).To(Equal("g3"))
	Expect(groups[0].Ports).To(HaveLen(2))
	Expect(groups[0].Ports[0].ID).To(Equal("pp3"))
	Expect(groups[0].Ports[1].ID).To(Equal("pp4"))
	Expect(groups[1].ID).To(Equal("g1"))
	Expect(groups[1].Chain.ID).To(Equal(chain.ID))
}

func TestUpdateNetworkElementRejectsForeignGroup(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	f.register("p1", "p2", "")
	f.register("p3", "p4", "")
	f.register("p5", "p6", "")
	pc1, err := f.api.RegisterNetworkElement(groupRefs("g1", "g2"))
	Expect(err).To(BeNil())
	pc2, err := f.api.RegisterNetworkElement(groupRefs("g3"))
	Expect(err).To(BeNil())

	_, err = f.api.UpdateNetworkElement(pc1, groupRefs("g1", "g3"))
	Expect(sfcerr.IsConflict(err)).To(BeTrue())
	Expect(err.Error()).To(ContainSubstring(pc2.ID))
	Expect(f.chainGroups(pc1.ID)).To(Equal([]string{"g1", "g2"}))
	Expect(f.backend.CallCount(neutron.PortChainsCollection, mockneutron.Update)).To(Equal(0))

	_, err = f.api.UpdateNetworkElement(&model.ServiceFunctionChain{ID: "pc9"}, groupRefs("g1"))
	Expect(sfcerr.IsNotFound(err)).To(BeTrue())

	_, err = f.api.UpdateNetworkElement(pc1, nil)
	Expect(sfcerr.IsInvalidArgument(err)).To(BeTrue())

	_, err = f.api.UpdateNetworkElement(nil, groupRefs("g1"))
	Expect(sfcerr.IsInvalidArgument(err)).To(BeTrue())
}

func TestDeleteNetworkElement(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	f.register("p1", "p2", "")
	pc1, err := f.api.RegisterNetworkElement(groupRefs("g1"))
	Expect(err).To(BeNil())

	f.backend.InjectFault(neutron.PortChainsCollection, mockneutron.Delete, 500, "chain is busy")
	err = f.api.DeleteNetworkElement(pc1)
	Expect(sfcerr.IsBackendFault(err)).To(BeTrue())
	fault, ok := errors.Cause(err).(*sfcerr.Error)
	Expect(ok).To(BeTrue())
	Expect(fault.Code).To(Equal(500))
	Expect(fault.Fault).To(Equal("chain is busy"))
	Expect(f.snapshots.chains).To(HaveKey(pc1.ID))

	f.backend.ClearFaults()
	Expect(f.api.DeleteNetworkElement(pc1)).To(Succeed())
	Expect(f.backend.RawPortChain(pc1.ID)).To(BeNil())
	Expect(f.snapshots.chains).ToNot(HaveKey(pc1.ID))

	err = f.api.DeleteNetworkElement(pc1)
	Expect(sfcerr.IsNotFound(err)).To(BeTrue())

	_, err = f.api.GetNetworkElements(pc1)
	Expect(sfcerr.IsNotFound(err)).To(BeTrue())
}

func TestGetNetworkElementsSkipsDanglingGroup(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	f.register("p1", "p2", "")
	f.register("p3", "p4", "")
	chain, err := f.api.RegisterNetworkElement(groupRefs("g1", "g2"))
	Expect(err).To(BeNil())
	Expect(f.backend.DeletePortPairGroup("g1")).To(Succeed())

	groups, err := f.api.GetNetworkElements(chain)
	Expect(err).To(BeNil())
	Expect(groups).To(HaveLen(1))
	Expect(groups[0].ID).To(Equal("g2"))
}

func TestInstallInspectionHookOverChain(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	f.register("p1", "p2", "")
	f.register("p3", "p4", "")
	chain, err := f.api.RegisterNetworkElement(groupRefs("g1", "g2"))
	Expect(err).To(BeNil())

	inspected := &model.NetworkElement{ID: "vm1", PortIPs: []string{"10.0.0.9"}}
	hookID, err := f.api.InstallInspectionHook(inspected, chain, 7, model.VLAN, 1, model.FailOpen)
	Expect(err).To(BeNil())

	classifier, err := f.client.GetFlowClassifier(hookID)
	Expect(err).To(BeNil())
	Expect(classifier.DestinationIPPrefix).To(Equal("10.0.0.9/32"))
	Expect(classifier.LogicalSourcePort).To(Equal("p1"))
	Expect(classifier.LogicalDestinationPort).To(Equal("p4"))
	Expect(f.snapshots.hooks).To(HaveKey(hookID))

	_, err = f.api.InstallInspectionHook(inspected, chain, 0, "", 0, model.NA)
	Expect(sfcerr.IsConflict(err)).To(BeTrue())
	Expect(f.backend.FlowClassifierCount()).To(Equal(1))

	got, err := f.api.GetInspectionHook(hookID)
	Expect(err).To(BeNil())
	Expect(got.HookID).To(Equal(hookID))
	Expect(got.InspectedPort.ID).To(Equal("vm1"))
	Expect(got.Chain.ID).To(Equal(chain.ID))
	Expect(got.Chain.GroupIDs()).To(Equal([]string{"g1", "g2"}))
}

func TestInstallInspectionHookChainReference(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	inspected := &model.NetworkElement{ID: "vm1", PortIPs: []string{"10.0.0.9"}}
	_, err := f.api.InstallInspectionHook(inspected, &model.InspectionPort{ID: "pp1"}, 0, "", 0, "")
	Expect(sfcerr.IsInvalidArgument(err)).To(BeTrue())

	_, err = f.api.InstallInspectionHook(inspected, nil, 0, "", 0, "")
	Expect(sfcerr.IsInvalidArgument(err)).To(BeTrue())

	_, err = f.api.InstallInspectionHook(inspected, &model.NetworkElement{ID: "pc7"}, 0, "", 0, "")
	Expect(sfcerr.IsNotFound(err)).To(BeTrue())
	Expect(f.backend.FlowClassifierCount()).To(Equal(0))
}

func TestUpdateAndRemoveInspectionHook(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	f.register("p1", "p2", "")
	f.register("p3", "p4", "")
	pc1, err := f.api.RegisterNetworkElement(groupRefs("g1"))
	Expect(err).To(BeNil())
	pc2, err := f.api.RegisterNetworkElement(groupRefs("g2"))
	Expect(err).To(BeNil())

	inspected := &model.NetworkElement{ID: "vm1", PortIPs: []string{"10.0.0.9"}}
	hookID, err := f.api.InstallInspectionHook(inspected, pc1, 0, "", 0, "")
	Expect(err).To(BeNil())

	err = f.api.UpdateInspectionHook(&model.InspectionHook{HookID: hookID, InspectedPort: inspected, Chain: pc2})
	Expect(err).To(BeNil())
	Expect(f.backend.RawPortChain(pc1.ID).FlowClassifiers).To(BeEmpty())
	Expect(f.backend.RawPortChain(pc2.ID).FlowClassifiers).To(Equal([]string{hookID}))
	Expect(f.snapshots.hooks[hookID].Chain.ID).To(Equal(pc2.ID))

	err = f.api.UpdateInspectionHook(&model.InspectionHook{HookID: hookID, InspectedPort: inspected})
	Expect(sfcerr.IsInvalidArgument(err)).To(BeTrue())

	Expect(f.api.RemoveInspectionHook(hookID)).To(Succeed())
	Expect(f.backend.FlowClassifierCount()).To(Equal(0))
	Expect(f.backend.RawPortChain(pc2.ID).FlowClassifiers).To(BeEmpty())
	Expect(f.snapshots.hooks).ToNot(HaveKey(hookID))

	Expect(f.api.RemoveInspectionHook(hookID)).To(Succeed())
	got, err := f.api.GetInspectionHook(hookID)
	Expect(err).To(BeNil())
	Expect(got).To(BeNil())
}

func TestSnapshotFailuresAreNotReturned(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()
	f.snapshots.err = fmt.Errorf("disk full")

	f.register("p1", "p2", "")
	chain, err := f.api.RegisterNetworkElement(groupRefs("g1"))
	Expect(err).To(BeNil())
	Expect(f.api.DeleteNetworkElement(chain)).To(Succeed())
	Expect(f.snapshots.chains).To(BeEmpty())
}

func TestWithoutSnapshots(t *testing.T) {
	RegisterTestingT(t)
	log := logrus.DefaultLogger()
	client := neutron.NewClient(mockneutron.NewMockBackend(), log, nil)
	rec := reconciler.NewReconciler(reconciler.Deps{Log: log, Neutron: client, HookProfileKey: config.DefaultHookProfileKey})
	api := redirection.NewRedirection(redirection.Deps{
		Log:        log,
		Neutron:    client,
		Reconciler: rec,
		Hooks: hook.NewManager(hook.Deps{
			Log: log, Neutron: client, Reconciler: rec, HookProfileKey: config.DefaultHookProfileKey}),
	})

	Expect(api.Config.PortChainDescription).To(Equal("Port Chain object created by OSC"))
	Expect(api.RemoveInspectionHook("fc1")).To(Succeed())
}

func TestUnsupportedOperations(t *testing.T) {
	RegisterTestingT(t)
	f := newFixture()

	inspected := element("p1")
	chain := &model.ServiceFunctionChain{ID: "pc1"}

	_, err := f.api.GetInspectionHookByPorts(inspected, chain)
	Expect(sfcerr.IsUnsupported(err)).To(BeTrue())
	Expect(sfcerr.IsUnsupported(f.api.RemoveInspectionHookByPorts(inspected, chain))).To(BeTrue())
	Expect(sfcerr.IsUnsupported(f.api.RemoveAllInspectionHooks(inspected))).To(BeTrue())
	_, err = f.api.GetInspectionHookTag(inspected, chain)
	Expect(sfcerr.IsUnsupported(err)).To(BeTrue())
	Expect(sfcerr.IsUnsupported(f.api.SetInspectionHookTag(inspected, chain, 1))).To(BeTrue())
	_, err = f.api.GetInspectionHookFailurePolicy(inspected, chain)
	Expect(sfcerr.IsUnsupported(err)).To(BeTrue())
	Expect(sfcerr.IsUnsupported(f.api.SetInspectionHookFailurePolicy(inspected, chain, model.FailClose))).To(BeTrue())
	_, err = f.api.GetInspectionHookOrder(inspected, chain)
	Expect(sfcerr.IsUnsupported(err)).To(BeTrue())
	Expect(sfcerr.IsUnsupported(f.api.SetInspectionHookOrder(inspected, chain, 1))).To(BeTrue())
	_, err = f.api.GetNetworkElementByDeviceOwnerID("compute:nova")
	Expect(sfcerr.IsUnsupported(err)).To(BeTrue())

	caps := f.api.Capabilities()
	Expect(caps.NeutronSFC).To(BeTrue())
	Expect(caps.ProviderCreds).To(BeTrue())
	Expect(caps.Tagging).To(BeFalse())
	Expect(caps.FailurePolicy).To(BeFalse())
	Expect(caps.HookOrder).To(BeFalse())

	// none of them touched the backend
	Expect(f.backend.CallCount(neutron.PortChainsCollection, mockneutron.Get)).To(Equal(0))
}
