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
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/unrolled/render"

	"github.com/contiv/nsfc/plugins/nsfc/model"
	"github.com/contiv/nsfc/plugins/nsfc/restapi"
	"github.com/contiv/nsfc/plugins/nsfc/sfcerr"
)

// route binds a handler to a URL and a method.
type route struct {
	path    string
	method  string
	handler func(formatter *render.Render) http.HandlerFunc
}

// routes lists all REST handlers of the plugin.
func (p *Plugin) routes() []route {
	return []route{
		{restapi.RestURLStatus, http.MethodGet, p.statusHandler},
		{restapi.RestURLCapabilities, http.MethodGet, p.capabilitiesHandler},
		{restapi.RestURLInspectionPorts, http.MethodPost, p.registerPortHandler},
		{restapi.RestURLInspectionPort, http.MethodGet, p.getPortHandler},
		{restapi.RestURLInspectionPort, http.MethodDelete, p.removePortHandler},
		{restapi.RestURLInspectionHooks, http.MethodPost, p.installHookHandler},
		{restapi.RestURLInspectionHook, http.MethodGet, p.getHookHandler},
		{restapi.RestURLInspectionHook, http.MethodPut, p.updateHookHandler},
		{restapi.RestURLInspectionHook, http.MethodDelete, p.removeHookHandler},
		{restapi.RestURLChains, http.MethodPost, p.createChainHandler},
		{restapi.RestURLChain, http.MethodPut, p.updateChainHandler},
		{restapi.RestURLChain, http.MethodDelete, p.deleteChainHandler},
		{restapi.RestURLChainElements, http.MethodGet, p.chainElementsHandler},
		{restapi.RestURLChainSnapshot, http.MethodGet, p.chainSnapshotHandler},
		{restapi.RestURLHookSnapshot, http.MethodGet, p.hookSnapshotHandler},
	}
}

func (p *Plugin) registerHandlers() {
	if p.HTTPHandlers == nil {
		p.Log.Warnf("No http handler provided, skipping registration of Neutron SFC REST handlers")
		return
	}
	for _, r := range p.routes() {
		p.HTTPHandlers.RegisterHTTPHandler(r.path, r.handler, r.method)
		p.Log.Infof("Neutron SFC REST handler registered: %s %s", r.method, r.path)
	}
}

// errorStatus maps error kinds to HTTP status codes.
var errorStatus = map[sfcerr.Kind]int{
	sfcerr.InvalidArgument: http.StatusBadRequest,
	sfcerr.NotFound:        http.StatusNotFound,
	sfcerr.Conflict:        http.StatusConflict,
	sfcerr.Unsupported:     http.StatusNotImplemented,
	sfcerr.BackendFault:    http.StatusBadGateway,
}

func (p *Plugin) replyError(formatter *render.Render, w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	reply := restapi.ErrorReply{Error: err.Error()}
	if kind, ok := sfcerr.KindOf(err); ok {
		status = errorStatus[kind]
		reply.Kind = kind.String()
		if sfcErr, isSfcErr := errors.Cause(err).(*sfcerr.Error); isSfcErr {
			reply.Code = sfcErr.Code
		}
	}
	p.Log.Debugf("REST request failed with %d: %v", status, err)
	formatter.JSON(w, status, reply)
}

// decode reads the JSON body of the request into the given value.
func decode(req *http.Request, into interface{}) error {
	if req.Body == nil {
		return sfcerr.NullArgument("request body")
	}
	defer req.Body.Close()
	if err := json.NewDecoder(req.Body).Decode(into); err != nil {
		return sfcerr.InvalidArgumentf("malformed request body: %v", err)
	}
	return nil
}

func (p *Plugin) statusHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		status, err := p.GetStatus(p.defaultConnector(), p.config.Region)
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		formatter.JSON(w, http.StatusOK, status)
	}
}

func (p *Plugin) capabilitiesHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		formatter.JSON(w, http.StatusOK, p.Capabilities())
	}
}

func (p *Plugin) registerPortHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		port := &model.InspectionPort{}
		if err := decode(req, port); err != nil {
			p.replyError(formatter, w, err)
			return
		}
		api, err := p.DefaultRedirection()
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		registered, err := api.RegisterInspectionPort(port)
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		formatter.JSON(w, http.StatusCreated, registered)
	}
}

func (p *Plugin) getPortHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)[restapi.IDVar]
		api, err := p.DefaultRedirection()
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		port, err := api.GetInspectionPort(&model.InspectionPort{ID: id})
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		if port == nil {
			p.replyError(formatter, w, sfcerr.NotFoundByID("Inspection Port", id))
			return
		}
		formatter.JSON(w, http.StatusOK, port)
	}
}

func (p *Plugin) removePortHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)[restapi.IDVar]
		api, err := p.DefaultRedirection()
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		if err := api.RemoveInspectionPort(&model.InspectionPort{ID: id}); err != nil {
			p.replyError(formatter, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (p *Plugin) installHookHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		install := &restapi.HookInstallRequest{}
		if err := decode(req, install); err != nil {
			p.replyError(formatter, w, err)
			return
		}
		api, err := p.DefaultRedirection()
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		hookID, err := api.InstallInspectionHook(install.InspectedPort,
			&model.ServiceFunctionChain{ID: install.ChainID}, install.Tag,
			install.EncapsulationType, install.Order, install.FailurePolicy)
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		formatter.JSON(w, http.StatusCreated, restapi.HookInstallReply{HookID: hookID})
	}
}

func (p *Plugin) getHookHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)[restapi.IDVar]
		api, err := p.DefaultRedirection()
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		hook, err := api.GetInspectionHook(id)
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		if hook == nil {
			p.replyError(formatter, w, sfcerr.NotFoundByID("Inspection Hook", id))
			return
		}
		formatter.JSON(w, http.StatusOK, hook)
	}
}

func (p *Plugin) updateHookHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		update := &restapi.HookUpdateRequest{}
		if err := decode(req, update); err != nil {
			p.replyError(formatter, w, err)
			return
		}
		api, err := p.DefaultRedirection()
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		hook := &model.InspectionHook{
			HookID:        mux.Vars(req)[restapi.IDVar],
			InspectedPort: update.InspectedPort,
			Chain:         &model.ServiceFunctionChain{ID: update.ChainID},
		}
		if err := api.UpdateInspectionHook(hook); err != nil {
			p.replyError(formatter, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (p *Plugin) removeHookHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		api, err := p.DefaultRedirection()
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		if err := api.RemoveInspectionHook(mux.Vars(req)[restapi.IDVar]); err != nil {
			p.replyError(formatter, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (p *Plugin) createChainHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		chainReq := &restapi.ChainRequest{}
		if err := decode(req, chainReq); err != nil {
			p.replyError(formatter, w, err)
			return
		}
		api, err := p.DefaultRedirection()
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		chain, err := api.RegisterNetworkElement(groupRefs(chainReq.GroupIDs))
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		formatter.JSON(w, http.StatusCreated, chain)
	}
}

func (p *Plugin) updateChainHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		chainReq := &restapi.ChainRequest{}
		if err := decode(req, chainReq); err != nil {
			p.replyError(formatter, w, err)
			return
		}
		api, err := p.DefaultRedirection()
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		chainRef := &model.ServiceFunctionChain{ID: mux.Vars(req)[restapi.IDVar]}
		chain, err := api.UpdateNetworkElement(chainRef, groupRefs(chainReq.GroupIDs))
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		formatter.JSON(w, http.StatusOK, chain)
	}
}

func (p *Plugin) deleteChainHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		api, err := p.DefaultRedirection()
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		chainRef := &model.ServiceFunctionChain{ID: mux.Vars(req)[restapi.IDVar]}
		if err := api.DeleteNetworkElement(chainRef); err != nil {
			p.replyError(formatter, w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (p *Plugin) chainElementsHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		api, err := p.DefaultRedirection()
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		chainRef := &model.ServiceFunctionChain{ID: mux.Vars(req)[restapi.IDVar]}
		groups, err := api.GetNetworkElements(chainRef)
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		formatter.JSON(w, http.StatusOK, groups)
	}
}

func (p *Plugin) chainSnapshotHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)[restapi.IDVar]
		chain, err := p.ChainSnapshot(id)
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		if chain == nil {
			p.replyError(formatter, w, sfcerr.NotFoundf("no snapshot recorded for chain %s", id))
			return
		}
		formatter.JSON(w, http.StatusOK, chain)
	}
}

func (p *Plugin) hookSnapshotHandler(formatter *render.Render) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		id := mux.Vars(req)[restapi.IDVar]
		hook, err := p.HookSnapshot(id)
		if err != nil {
			p.replyError(formatter, w, err)
			return
		}
		if hook == nil {
			p.replyError(formatter, w, sfcerr.NotFoundf("no snapshot recorded for inspection hook %s", id))
			return
		}
		formatter.JSON(w, http.StatusOK, hook)
	}
}

// groupRefs converts group ids into element references.
func groupRefs(ids []string) []model.Element {
	refs := make([]model.Element, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, &model.InspectionPortGroup{ID: id})
	}
	return refs
}
