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

package nsfc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/ligato/cn-infra/infra"
	"github.com/ligato/cn-infra/logging"
	. "github.com/onsi/gomega"
	"github.com/unrolled/render"

	mockneutron "github.com/contiv/nsfc/mock/neutron"
	"github.com/contiv/nsfc/plugins/nsfc/config"
	"github.com/contiv/nsfc/plugins/nsfc/model"
	"github.com/contiv/nsfc/plugins/nsfc/neutron"
	"github.com/contiv/nsfc/plugins/nsfc/restapi"
	"github.com/contiv/nsfc/plugins/nsfc/sfcerr"
)

const providerIP = "192.168.16.10"

type testEnv struct {
	plugin    *Plugin
	backend   *mockneutron.MockBackend
	router    *mux.Router
	connected []string // provider addresses passed to the backend factory
}

func newTestEnv(snapshotDir string) *testEnv {
	env := &testEnv{backend: mockneutron.NewMockBackend()}
	for i := 1; i <= 4; i++ {
		env.backend.AddPort(fmt.Sprintf("p%d", i), fmt.Sprintf("fa:16:3e:00:00:0%d", i), fmt.Sprintf("10.0.0.%d", i))
	}
	env.backend.AddPort("vm1", "fa:16:3e:00:00:09", "10.0.0.9")

	env.plugin = &Plugin{
		Deps: Deps{
			PluginDeps: infra.PluginDeps{
				PluginName: "nsfc-test",
				Log:        logging.ForPlugin("nsfc-test"),
			},
			BackendFactory: func(vc *model.VirtualizationConnector, region string, cfg *config.Config) (neutron.Backend, error) {
				env.connected = append(env.connected, vc.ProviderIPAddress)
				return env.backend, nil
			},
		},
	}
	Expect(env.plugin.Init()).To(Succeed())
	env.plugin.config.ProviderIPAddress = providerIP
	env.plugin.config.Name = "openstack"
	env.plugin.config.Username = "admin"
	env.plugin.config.Password = "secret"
	env.plugin.config.SnapshotDir = snapshotDir
	Expect(env.plugin.AfterInit()).To(Succeed())

	formatter := render.New()
	env.router = mux.NewRouter()
	for _, r := range env.plugin.routes() {
		env.router.HandleFunc(r.path, r.handler(formatter)).Methods(r.method)
	}
	return env
}

func (env *testEnv) do(method, url string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(body)
		Expect(err).To(BeNil())
	}
	req := httptest.NewRequest(method, url, bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeReply(rec *httptest.ResponseRecorder, into interface{}) {
	Expect(json.Unmarshal(rec.Body.Bytes(), into)).To(Succeed())
}

func expectError(rec *httptest.ResponseRecorder, status int, kind sfcerr.Kind) restapi.ErrorReply {
	Expect(rec.Code).To(Equal(status))
	reply := restapi.ErrorReply{}
	decodeReply(rec, &reply)
	Expect(reply.Kind).To(Equal(kind.String()))
	Expect(reply.Error).ToNot(BeEmpty())
	return reply
}

func TestStatusAndCapabilities(t *testing.T) {
	RegisterTestingT(t)
	env := newTestEnv("")

	rec := env.do(http.MethodGet, restapi.RestURLStatus, nil)
	Expect(rec.Code).To(Equal(http.StatusOK))
	status := model.Status{}
	decodeReply(rec, &status)
	Expect(status).To(Equal(model.Status{Name: "Neutron-sfc", Version: "0.1", Ready: true}))

	rec = env.do(http.MethodGet, restapi.RestURLCapabilities, nil)
	Expect(rec.Code).To(Equal(http.StatusOK))
	capabilities := model.Capabilities{}
	decodeReply(rec, &capabilities)
	Expect(capabilities).To(Equal(model.Capabilities{ProviderCreds: true, NeutronSFC: true}))
	Expect(env.connected).To(BeEmpty())
}

func TestInspectionPortOverREST(t *testing.T) {
	RegisterTestingT(t)
	env := newTestEnv("")

	rec := env.do(http.MethodPost, restapi.RestURLInspectionPorts, &model.InspectionPort{
		Ingress: &model.NetworkElement{ID: "p1", PortIPs: []string{"10.0.0.1"}},
		Egress:  &model.NetworkElement{ID: "p2", PortIPs: []string{"10.0.0.2"}},
	})
	Expect(rec.Code).To(Equal(http.StatusCreated))
	port := model.InspectionPort{}
	decodeReply(rec, &port)
	Expect(port.ID).To(Equal("pp1"))
	Expect(port.Parent).To(Equal("g1"))
	Expect(port.Ingress.ID).To(Equal("p1"))

	rec = env.do(http.MethodGet, restapi.WithID(restapi.RestURLInspectionPort, "pp1"), nil)
	Expect(rec.Code).To(Equal(http.StatusOK))
	port = model.InspectionPort{}
	decodeReply(rec, &port)
	Expect(port.Egress.ID).To(Equal("p2"))
	Expect(port.Parent).To(Equal("g1"))

	rec = env.do(http.MethodDelete, restapi.WithID(restapi.RestURLInspectionPort, "pp1"), nil)
	Expect(rec.Code).To(Equal(http.StatusNoContent))
	Expect(env.backend.PortPairCount()).To(Equal(0))
	Expect(env.backend.PortPairGroupCount()).To(Equal(0))

	rec = env.do(http.MethodGet, restapi.WithID(restapi.RestURLInspectionPort, "pp1"), nil)
	expectError(rec, http.StatusNotFound, sfcerr.NotFound)

	// removing an unknown port is not an error
	rec = env.do(http.MethodDelete, restapi.WithID(restapi.RestURLInspectionPort, "pp1"), nil)
	Expect(rec.Code).To(Equal(http.StatusNoContent))

	// the connector is created once and reused
	Expect(env.connected).To(Equal([]string{providerIP}))
}

func TestMalformedRequests(t *testing.T) {
	RegisterTestingT(t)
	env := newTestEnv("")

	rec := env.do(http.MethodPost, restapi.RestURLInspectionPorts, "{not json")
	expectError(rec, http.StatusBadRequest, sfcerr.InvalidArgument)

	rec = env.do(http.MethodPost, restapi.RestURLInspectionPorts, &model.InspectionPort{
		Ingress: &model.NetworkElement{ID: "p1"},
	})
	expectError(rec, http.StatusBadRequest, sfcerr.InvalidArgument)

	rec = env.do(http.MethodPost, restapi.RestURLInspectionPorts, &model.InspectionPort{
		Ingress: &model.NetworkElement{ID: "p1"},
		Egress:  &model.NetworkElement{ID: "p2"},
		Parent:  "g42",
	})
	reply := expectError(rec, http.StatusNotFound, sfcerr.NotFound)
	Expect(reply.Error).To(ContainSubstring("g42"))
}

func TestChainAndHookOverREST(t *testing.T) {
	RegisterTestingT(t)
	env := newTestEnv("")

	env.do(http.MethodPost, restapi.RestURLInspectionPorts, &model.InspectionPort{
		Ingress: &model.NetworkElement{ID: "p1"},
		Egress:  &model.NetworkElement{ID: "p4"},
	})
	env.do(http.MethodPost, restapi.RestURLInspectionPorts, &model.InspectionPort{
		Ingress: &model.NetworkElement{ID: "p2"},
		Egress:  &model.NetworkElement{ID: "p3"},
	})
	Expect(env.backend.PortPairGroupCount()).To(Equal(2))

	rec := env.do(http.MethodPost, restapi.RestURLChains, &restapi.ChainRequest{GroupIDs: []string{"g1"}})
	Expect(rec.Code).To(Equal(http.StatusCreated))
	chain := model.ServiceFunctionChain{}
	decodeReply(rec, &chain)
	Expect(chain.ID).To(Equal("pc1"))
	Expect(chain.Groups).To(HaveLen(1))

	// a group belongs to at most one chain
	rec = env.do(http.MethodPost, restapi.RestURLChains, &restapi.ChainRequest{GroupIDs: []string{"g1"}})
	expectError(rec, http.StatusConflict, sfcerr.Conflict)

	rec = env.do(http.MethodPut, restapi.WithID(restapi.RestURLChain, "pc1"),
		&restapi.ChainRequest{GroupIDs: []string{"g2", "g1"}})
	Expect(rec.Code).To(Equal(http.StatusOK))

	rec = env.do(http.MethodGet, restapi.WithID(restapi.RestURLChainElements, "pc1"), nil)
	Expect(rec.Code).To(Equal(http.StatusOK))
	var groups []*model.InspectionPortGroup
	decodeReply(rec, &groups)
	Expect(groups).To(HaveLen(2))
	Expect(groups[0].ID).To(Equal("g2"))
	Expect(groups[1].ID).To(Equal("g1"))

	rec = env.do(http.MethodPost, restapi.RestURLInspectionHooks, &restapi.HookInstallRequest{
		InspectedPort: &model.NetworkElement{ID: "vm1", PortIPs: []string{"10.0.0.9"}},
		ChainID:       "pc1",
	})
	Expect(rec.Code).To(Equal(http.StatusCreated))
	installed := restapi.HookInstallReply{}
	decodeReply(rec, &installed)
	Expect(installed.HookID).To(Equal("fc1"))

	rec = env.do(http.MethodPost, restapi.RestURLInspectionHooks, &restapi.HookInstallRequest{
		InspectedPort: &model.NetworkElement{ID: "vm1", PortIPs: []string{"10.0.0.9"}},
		ChainID:       "pc1",
	})
	expectError(rec, http.StatusConflict, sfcerr.Conflict)

	rec = env.do(http.MethodGet, restapi.WithID(restapi.RestURLInspectionHook, "fc1"), nil)
	Expect(rec.Code).To(Equal(http.StatusOK))
	hook := model.InspectionHook{}
	decodeReply(rec, &hook)
	Expect(hook.HookID).To(Equal("fc1"))
	Expect(hook.InspectedPort.ID).To(Equal("vm1"))
	Expect(hook.Chain.ID).To(Equal("pc1"))

	rec = env.do(http.MethodDelete, restapi.WithID(restapi.RestURLInspectionHook, "fc1"), nil)
	Expect(rec.Code).To(Equal(http.StatusNoContent))
	Expect(env.backend.FlowClassifierCount()).To(Equal(0))

	rec = env.do(http.MethodGet, restapi.WithID(restapi.RestURLInspectionHook, "fc1"), nil)
	expectError(rec, http.StatusNotFound, sfcerr.NotFound)

	rec = env.do(http.MethodDelete, restapi.WithID(restapi.RestURLChain, "pc1"), nil)
	Expect(rec.Code).To(Equal(http.StatusNoContent))

	rec = env.do(http.MethodGet, restapi.WithID(restapi.RestURLChainElements, "pc1"), nil)
	expectError(rec, http.StatusNotFound, sfcerr.NotFound)
}

func TestBackendFaultOverREST(t *testing.T) {
	RegisterTestingT(t)
	env := newTestEnv("")

	env.backend.InjectFault(neutron.PortChainsCollection, mockneutron.Create, 500, "quota exceeded")
	env.do(http.MethodPost, restapi.RestURLInspectionPorts, &model.InspectionPort{
		Ingress: &model.NetworkElement{ID: "p1"},
		Egress:  &model.NetworkElement{ID: "p2"},
	})
	rec := env.do(http.MethodPost, restapi.RestURLChains, &restapi.ChainRequest{GroupIDs: []string{"g1"}})
	reply := expectError(rec, http.StatusBadGateway, sfcerr.BackendFault)
	Expect(reply.Code).To(Equal(500))
}

func TestSnapshotsOverREST(t *testing.T) {
	RegisterTestingT(t)

	env := newTestEnv("")
	rec := env.do(http.MethodGet, restapi.WithID(restapi.RestURLChainSnapshot, "pc1"), nil)
	expectError(rec, http.StatusNotImplemented, sfcerr.Unsupported)

	dir, err := ioutil.TempDir("", "nsfc-snapshots")
	Expect(err).To(BeNil())
	defer os.RemoveAll(dir)

	env = newTestEnv(dir)
	defer env.plugin.Close()

	rec = env.do(http.MethodGet, restapi.WithID(restapi.RestURLChainSnapshot, "pc1"), nil)
	expectError(rec, http.StatusNotFound, sfcerr.NotFound)

	env.do(http.MethodPost, restapi.RestURLInspectionPorts, &model.InspectionPort{
		Ingress: &model.NetworkElement{ID: "p1"},
		Egress:  &model.NetworkElement{ID: "p2"},
	})
	rec = env.do(http.MethodPost, restapi.RestURLChains, &restapi.ChainRequest{GroupIDs: []string{"g1"}})
	Expect(rec.Code).To(Equal(http.StatusCreated))

	rec = env.do(http.MethodGet, restapi.WithID(restapi.RestURLChainSnapshot, "pc1"), nil)
	Expect(rec.Code).To(Equal(http.StatusOK))
	chain := model.ServiceFunctionChain{}
	decodeReply(rec, &chain)
	Expect(chain.ID).To(Equal("pc1"))
	Expect(chain.Groups).To(HaveLen(1))
	Expect(chain.Groups[0].ID).To(Equal("g1"))

	rec = env.do(http.MethodGet, restapi.WithID(restapi.RestURLHookSnapshot, "fc1"), nil)
	expectError(rec, http.StatusNotFound, sfcerr.NotFound)

	rec = env.do(http.MethodPost, restapi.RestURLInspectionHooks, &restapi.HookInstallRequest{
		InspectedPort: &model.NetworkElement{ID: "vm1", PortIPs: []string{"10.0.0.9"}},
		ChainID:       "pc1",
	})
	Expect(rec.Code).To(Equal(http.StatusCreated))

	rec = env.do(http.MethodGet, restapi.WithID(restapi.RestURLHookSnapshot, "fc1"), nil)
	Expect(rec.Code).To(Equal(http.StatusOK))
	hook := model.InspectionHook{}
	decodeReply(rec, &hook)
	Expect(hook.HookID).To(Equal("fc1"))
	Expect(hook.InspectedPort.ID).To(Equal("vm1"))
	Expect(hook.Chain.ID).To(Equal("pc1"))

	rec = env.do(http.MethodDelete, restapi.WithID(restapi.RestURLInspectionHook, "fc1"), nil)
	Expect(rec.Code).To(Equal(http.StatusNoContent))
	rec = env.do(http.MethodGet, restapi.WithID(restapi.RestURLHookSnapshot, "fc1"), nil)
	expectError(rec, http.StatusNotFound, sfcerr.NotFound)

	files, err := ioutil.ReadDir(dir)
	Expect(err).To(BeNil())
	Expect(files).To(HaveLen(1))
	Expect(files[0].Name()).To(Equal("nsfc_" + providerIP + ".db"))

	Expect(env.plugin.Close()).To(Succeed())
}

func TestCreateRedirectionAPI(t *testing.T) {
	RegisterTestingT(t)
	env := newTestEnv("")

	_, err := env.plugin.CreateRedirectionAPI(nil, "")
	Expect(sfcerr.IsInvalidArgument(err)).To(BeTrue())

	_, err = env.plugin.CreateRedirectionAPI(&model.VirtualizationConnector{Name: "openstack"}, "")
	Expect(sfcerr.IsInvalidArgument(err)).To(BeTrue())
	Expect(env.connected).To(BeEmpty())

	api, err := env.plugin.CreateRedirectionAPI(&model.VirtualizationConnector{
		Name:              "openstack",
		ProviderIPAddress: "10.1.1.1",
		ProviderUsername:  "admin",
	}, "RegionOne")
	Expect(err).To(BeNil())
	Expect(api.Capabilities().NeutronSFC).To(BeTrue())
	Expect(env.connected).To(Equal([]string{"10.1.1.1"}))

	_, err = env.plugin.QueryPortInfo(nil, "", nil)
	Expect(sfcerr.IsUnsupported(err)).To(BeTrue())
}

func TestConfigStringMasksPassword(t *testing.T) {
	RegisterTestingT(t)

	cfg := config.DefaultConfig()
	cfg.Password = "secret"
	out := configString(cfg)
	Expect(out).ToNot(ContainSubstring("secret"))
	Expect(strings.Contains(out, "***")).To(BeTrue())
	Expect(cfg.Password).To(Equal("secret"))
}
