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

import "github.com/contiv/nsfc/plugins/nsfc/neutron"

// The backend has no foreign keys, parents only list the ids of their children.
// The indexes below invert those membership lists for the duration of a single
// request. When a child is listed by more than one parent, the first parent
// in backend iteration order wins.

// groupIndex maps port pair id -> containing port pair group.
type groupIndex map[string]*neutron.PortPairGroup

func newGroupIndex(groups []*neutron.PortPairGroup) groupIndex {
	idx := make(groupIndex)
	for _, group := range groups {
		for _, pairID := range group.PortPairs {
			if _, taken := idx[pairID]; !taken {
				idx[pairID] = group
			}
		}
	}
	return idx
}

// chainIndex maps port pair group id (or flow classifier id) -> containing port chain.
type chainIndex map[string]*neutron.PortChain

func newChainIndexByGroup(chains []*neutron.PortChain) chainIndex {
	idx := make(chainIndex)
	for _, chain := range chains {
		for _, groupID := range chain.PortPairGroups {
			if _, taken := idx[groupID]; !taken {
				idx[groupID] = chain
			}
		}
	}
	return idx
}

func newChainIndexByClassifier(chains []*neutron.PortChain) chainIndex {
	idx := make(chainIndex)
	for _, chain := range chains {
		for _, classifierID := range chain.FlowClassifiers {
			if _, taken := idx[classifierID]; !taken {
				idx[classifierID] = chain
			}
		}
	}
	return idx
}

// hookTagIndex maps hook id stored in the port binding profile -> tagged port.
type hookTagIndex map[string]*neutron.Port

func newHookTagIndex(ports []*neutron.Port, profileKey string) hookTagIndex {
	idx := make(hookTagIndex)
	for _, port := range ports {
		tag := port.ProfileValue(profileKey)
		if tag == "" {
			continue
		}
		if _, taken := idx[tag]; !taken {
			idx[tag] = port
		}
	}
	return idx
}
