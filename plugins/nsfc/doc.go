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

// Package nsfc implements a redirection adapter that exposes traffic
// inspection (inspection ports, port groups, service function chains and
// inspection hooks) on top of the OpenStack Neutron SFC extension.
//
// The plugin creates one redirection API per virtualization connector
// (Keystone credentials of one OpenStack deployment). The connector given by
// the plugin configuration is also served over REST:
//
//	nsfc.conf:
//	  providerIPAddress: 10.1.1.1
//	  domain: default
//	  project: admin
//	  username: admin
//	  password: secret
//	  snapshotDir: /var/lib/nsfc
//
//	$ curl -X POST localhost:9191/nsfc/v1/inspection-ports \
//	    -d '{"ingress": {"id": "<port>"}, "egress": {"id": "<port>"}}'
//	{"id":"<port pair>","ingress":{...},"egress":{...},"parentId":"<port pair group>"}
//
// The plugin keeps no state about the backend objects. Every operation
// re-reads the port pairs, groups, chains and flow classifiers it needs.
// Entities returned by successful mutations are optionally recorded into
// a per-connector bolt database (see package snapshot) for inspection only.
package nsfc
