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

package model

import (
	"encoding/json"
	"testing"

	. "github.com/onsi/gomega"
)

func TestBackReferences(t *testing.T) {
	RegisterTestingT(t)

	chain := &ServiceFunctionChain{ID: "pc1"}
	group := &InspectionPortGroup{ID: "g1"}
	port := &InspectionPort{ID: "pp1", Ingress: &NetworkElement{ID: "p1"}, Egress: &NetworkElement{ID: "p2"}}

	group.AddPort(port)
	chain.AddGroup(group)

	Expect(port.ParentID()).To(Equal("g1"))
	Expect(group.ParentID()).To(Equal("pc1"))
	Expect(chain.ParentID()).To(BeEmpty())
	Expect(chain.Group("g1")).To(BeIdenticalTo(group))
	Expect(group.Port("pp1")).To(BeIdenticalTo(port))
	Expect(group.Port("pp2")).To(BeNil())
	Expect(chain.GroupIDs()).To(Equal([]string{"g1"}))
}

func TestElementKinds(t *testing.T) {
	RegisterTestingT(t)

	elements := []Element{
		&NetworkElement{ID: "p1"},
		&InspectionPort{ID: "pp1"},
		&InspectionPortGroup{ID: "g1"},
		&ServiceFunctionChain{ID: "pc1"},
	}
	kinds := []Kind{NetworkElementKind, InspectionPortKind, InspectionPortGroupKind, ServiceFunctionChainKind}
	for i, el := range elements {
		Expect(el.Kind()).To(Equal(kinds[i]))
	}
	Expect(Kind(9).String()).To(Equal("INVALID"))
}

func TestChainWithHookMarshals(t *testing.T) {
	RegisterTestingT(t)

	chain := &ServiceFunctionChain{ID: "pc1", ClassifierIDs: []string{"fc1"}}
	group := &InspectionPortGroup{ID: "g1"}
	group.AddPort(&InspectionPort{ID: "pp1"})
	chain.AddGroup(group)
	hook := &InspectionHook{HookID: "fc1", InspectedPort: &NetworkElement{ID: "p9"}, Chain: chain}
	chain.Hooks = append(chain.Hooks, hook)

	data, err := json.Marshal(hook)
	Expect(err).To(BeNil())
	Expect(string(data)).To(ContainSubstring(`"hookId":"fc1"`))
	Expect(string(data)).To(ContainSubstring(`"parentId":"g1"`))
}
