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
	"fmt"
	"os"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/ligato/cn-infra/infra"
	"github.com/ligato/cn-infra/logging"
	prometheusplugin "github.com/ligato/cn-infra/rpc/prometheus"
	"github.com/ligato/cn-infra/rpc/rest"
	"github.com/pkg/errors"

	"github.com/contiv/nsfc/plugins/nsfc/config"
	"github.com/contiv/nsfc/plugins/nsfc/hook"
	"github.com/contiv/nsfc/plugins/nsfc/model"
	"github.com/contiv/nsfc/plugins/nsfc/neutron"
	"github.com/contiv/nsfc/plugins/nsfc/reconciler"
	"github.com/contiv/nsfc/plugins/nsfc/redirection"
	"github.com/contiv/nsfc/plugins/nsfc/sfcerr"
	"github.com/contiv/nsfc/plugins/nsfc/snapshot"
	"github.com/contiv/nsfc/plugins/nsfc/stats"
)

const (
	controllerName    = "Neutron-sfc"
	controllerVersion = "0.1"
)

// Plugin is the Neutron SFC redirection controller.
type Plugin struct {
	Deps

	config   *config.Config
	stats    *stats.Collector
	validate *validator.Validate

	mutex      sync.Mutex
	defaultAPI redirection.API

	snapshotMutex sync.Mutex
	snapshots     map[string]*snapshot.Store // provider IP -> store
}

var _ API = (*Plugin)(nil)

// Deps defines dependencies of the Neutron SFC plugin.
type Deps struct {
	infra.PluginDeps
	HTTPHandlers rest.HTTPHandlers
	Prometheus   prometheusplugin.API

	// BackendFactory connects to the network service of the given connector.
	// Defaults to KeystoneBackend.
	BackendFactory BackendFactory
}

// BackendFactory returns the backend serving the given connector.
type BackendFactory func(vc *model.VirtualizationConnector, region string, cfg *config.Config) (neutron.Backend, error)

// KeystoneBackend authenticates with Keystone v3 at the provider address of
// the connector and returns the gophercloud backend of its network service.
func KeystoneBackend(vc *model.VirtualizationConnector, region string, cfg *config.Config) (neutron.Backend, error) {
	session := &neutron.KeystoneSessionProvider{
		IdentityEndpoint: neutron.AuthURL(vc.ProviderIPAddress, int(cfg.AuthPort), cfg.AuthPath),
		Domain:           vc.ProviderAdminDomainID,
		Project:          vc.ProviderAdminTenantName,
		Username:         vc.ProviderUsername,
		Password:         vc.ProviderPassword,
		Region:           region,
	}
	client, err := session.NetworkClient()
	if err != nil {
		return nil, err
	}
	return neutron.NewGophercloudBackend(client), nil
}

// Init loads the configuration, prepares the statistics and registers
// the REST handlers.
func (p *Plugin) Init() error {
	p.config = config.DefaultConfig()
	if p.Cfg != nil {
		if _, err := p.Cfg.LoadValue(p.config); err != nil {
			return err
		}
	}
	p.Log.Infof("Neutron SFC plugin configuration: %s", configString(p.config))

	p.validate = validator.New()
	p.snapshots = make(map[string]*snapshot.Store)
	if p.BackendFactory == nil {
		p.BackendFactory = KeystoneBackend
	}

	p.stats = &stats.Collector{
		Log:        p.componentLogger("stats"),
		Prometheus: p.Prometheus,
	}
	if err := p.stats.Init(); err != nil {
		return err
	}

	p.registerHandlers()
	return nil
}

// AfterInit reports whether the REST API has a connector to serve.
func (p *Plugin) AfterInit() error {
	if p.config.ProviderIPAddress == "" {
		p.Log.Warn("No provider configured, REST requests for redirection will fail")
	}
	return nil
}

// Close closes the snapshot databases.
func (p *Plugin) Close() error {
	p.mutex.Lock()
	p.defaultAPI = nil
	p.mutex.Unlock()

	p.snapshotMutex.Lock()
	defer p.snapshotMutex.Unlock()

	var wasErr error
	for ip, store := range p.snapshots {
		if err := store.Close(); err != nil {
			p.Log.Errorf("Failed to close snapshot database of %s: %v", ip, err)
			wasErr = err
		}
	}
	p.snapshots = make(map[string]*snapshot.Store)
	return wasErr
}

// GetStatus returns name and version of the controller.
func (p *Plugin) GetStatus(vc *model.VirtualizationConnector, region string) (*model.Status, error) {
	return &model.Status{Name: controllerName, Version: controllerVersion, Ready: true}, nil
}

// Capabilities returns the features offered by Neutron SFC.
func (p *Plugin) Capabilities() model.Capabilities {
	return redirection.NeutronSFCCapabilities
}

// QueryPortInfo is not supported.
func (p *Plugin) QueryPortInfo(vc *model.VirtualizationConnector, region string,
	query map[string]*model.FlowInfo) (map[string]*model.FlowPortInfo, error) {
	return nil, sfcerr.Unsupportedf("Neutron SFC SDN Controller does not support flow based query")
}

// CreateRedirectionAPI creates a redirection API for the given connector.
func (p *Plugin) CreateRedirectionAPI(vc *model.VirtualizationConnector, region string) (redirection.API, error) {
	if vc == nil {
		return nil, sfcerr.NullArgument("Virtualization Connector")
	}
	if err := p.validate.Struct(vc); err != nil {
		return nil, sfcerr.InvalidArgumentf("non-null VC with non-empty name, provider address and user required: %v", err)
	}
	p.Log.Infof("Creating redirection API for %s (region '%s')", vc, region)

	backend, err := p.BackendFactory(vc, region, p.config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to provider %s", vc.ProviderIPAddress)
	}

	client := neutron.NewClient(backend, p.componentLogger("neutron"), p.stats)
	rec := reconciler.NewReconciler(reconciler.Deps{
		Log:            p.componentLogger("reconciler"),
		Neutron:        client,
		HookProfileKey: p.config.HookProfileKey,
	})
	deps := redirection.Deps{
		Log:        p.componentLogger("redirection"),
		Config:     p.config,
		Neutron:    client,
		Reconciler: rec,
		Hooks: hook.NewManager(hook.Deps{
			Log:            p.componentLogger("hooks"),
			Neutron:        client,
			Reconciler:     rec,
			HookProfileKey: p.config.HookProfileKey,
		}),
	}
	if store := p.snapshotStore(vc.ProviderIPAddress); store != nil {
		deps.Snapshots = store
	}
	return redirection.NewRedirection(deps), nil
}

// DefaultRedirection returns the redirection API of the configured connector.
func (p *Plugin) DefaultRedirection() (redirection.API, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.defaultAPI != nil {
		return p.defaultAPI, nil
	}
	api, err := p.CreateRedirectionAPI(p.defaultConnector(), p.config.Region)
	if err != nil {
		return nil, err
	}
	p.defaultAPI = api
	return api, nil
}

// ChainSnapshot returns the last recorded snapshot of the chain of the
// configured connector, nil if none was recorded.
func (p *Plugin) ChainSnapshot(chainID string) (*model.ServiceFunctionChain, error) {
	store := p.snapshotStore(p.config.ProviderIPAddress)
	if store == nil {
		return nil, sfcerr.Unsupportedf("snapshots are not enabled for provider '%s'", p.config.ProviderIPAddress)
	}
	return store.Chain(chainID)
}

// HookSnapshot returns the last recorded snapshot of the inspection hook of
// the configured connector, nil if none was recorded.
func (p *Plugin) HookSnapshot(hookID string) (*model.InspectionHook, error) {
	store := p.snapshotStore(p.config.ProviderIPAddress)
	if store == nil {
		return nil, sfcerr.Unsupportedf("snapshots are not enabled for provider '%s'", p.config.ProviderIPAddress)
	}
	return store.Hook(hookID)
}

func (p *Plugin) defaultConnector() *model.VirtualizationConnector {
	return &model.VirtualizationConnector{
		Name:                    p.config.Name,
		ProviderIPAddress:       p.config.ProviderIPAddress,
		ProviderAdminDomainID:   p.config.Domain,
		ProviderUsername:        p.config.Username,
		ProviderPassword:        p.config.Password,
		ProviderAdminTenantName: p.config.Project,
	}
}

// snapshotStore returns the (cached) snapshot database of the provider.
// Returns nil if snapshots are disabled or the database cannot be opened.
func (p *Plugin) snapshotStore(providerIP string) *snapshot.Store {
	if p.config.SnapshotDir == "" {
		return nil
	}
	p.snapshotMutex.Lock()
	defer p.snapshotMutex.Unlock()

	if store, opened := p.snapshots[providerIP]; opened {
		return store
	}
	if err := os.MkdirAll(p.config.SnapshotDir, 0700); err != nil {
		p.Log.Warnf("Snapshots disabled, cannot create directory %s: %v", p.config.SnapshotDir, err)
		return nil
	}
	store, err := snapshot.Open(snapshot.FileName(p.config.SnapshotDir, providerIP))
	if err != nil {
		p.Log.Warnf("Snapshots disabled for provider %s: %v", providerIP, err)
		return nil
	}
	p.snapshots[providerIP] = store
	return store
}

// componentLogger returns the logger of a component created by the plugin.
// Connectors may be created repeatedly, the logger is shared among them.
func (p *Plugin) componentLogger(name string) logging.Logger {
	return logging.ForPlugin(p.String() + "-" + name)
}

// configString prints the configuration without the password.
func configString(cfg *config.Config) string {
	masked := *cfg
	if masked.Password != "" {
		masked.Password = "***"
	}
	return fmt.Sprintf("%+v", masked)
}
