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
	"github.com/contiv/nsfc/plugins/nsfc/model"
	"github.com/contiv/nsfc/plugins/nsfc/sfcerr"
)

// GetInspectionHookByPorts is not supported.
func (r *Redirection) GetInspectionHookByPorts(inspected *model.NetworkElement, inspectionPort model.Element) (
	*model.InspectionHook, error) {
	return nil, sfcerr.Unsupportedf(
		"retrieving inspection hooks with inspected port %s and inspection port %s is not supported",
		inspected, inspectionPort)
}

// RemoveInspectionHookByPorts is not supported.
func (r *Redirection) RemoveInspectionHookByPorts(inspected *model.NetworkElement, inspectionPort model.Element) error {
	return sfcerr.Unsupportedf(
		"removing inspection hooks with inspected port %s and inspection port %s is not supported",
		inspected, inspectionPort)
}

// RemoveAllInspectionHooks is not supported.
func (r *Redirection) RemoveAllInspectionHooks(inspected *model.NetworkElement) error {
	return sfcerr.Unsupportedf("removing all inspection hooks is not supported in neutron SFC")
}

// GetInspectionHookTag is not supported.
func (r *Redirection) GetInspectionHookTag(inspected *model.NetworkElement, inspectionPort model.Element) (int64, error) {
	return 0, errTags
}

// SetInspectionHookTag is not supported.
func (r *Redirection) SetInspectionHookTag(inspected *model.NetworkElement, inspectionPort model.Element, tag int64) error {
	return errTags
}

// GetInspectionHookFailurePolicy is not supported.
func (r *Redirection) GetInspectionHookFailurePolicy(inspected *model.NetworkElement, inspectionPort model.Element) (
	model.FailurePolicyType, error) {
	return "", errFailurePolicy
}

// SetInspectionHookFailurePolicy is not supported.
func (r *Redirection) SetInspectionHookFailurePolicy(inspected *model.NetworkElement, inspectionPort model.Element,
	policy model.FailurePolicyType) error {
	return errFailurePolicy
}

// GetInspectionHookOrder is not supported.
func (r *Redirection) GetInspectionHookOrder(inspected *model.NetworkElement, inspectionPort model.Element) (int64, error) {
	return 0, errHookOrder
}

// SetInspectionHookOrder is not supported.
func (r *Redirection) SetInspectionHookOrder(inspected *model.NetworkElement, inspectionPort model.Element, order int64) error {
	return errHookOrder
}

// GetNetworkElementByDeviceOwnerID is not supported.
func (r *Redirection) GetNetworkElementByDeviceOwnerID(deviceOwnerID string) (*model.NetworkElement, error) {
	return nil, sfcerr.Unsupportedf(
		"retrieving the network element given the device owner id (%s) is not supported", deviceOwnerID)
}

var (
	errTags          = sfcerr.Unsupportedf("tags are not supported in neutron SFC")
	errFailurePolicy = sfcerr.Unsupportedf("failure policy is not supported in neutron SFC")
	errHookOrder     = sfcerr.Unsupportedf("hook order is not supported in neutron SFC")
)
