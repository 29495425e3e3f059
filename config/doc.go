// Copyright 2021 The zkx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package config builds zkx.Config values from declarative documents.

A document describes a single client element. Its attributes carry the
scalar settings and the names of shared objects, and its nested
elements carry the authorization and the retry policy. In XML:

	<zk:client connection-string="zk1:2181,zk2:2181"
	           namespace="app"
	           session-timeout="30000"
	           acl-provider-ref="acls">
	    <zk:authorization scheme="digest" credentials="${ZK_AUTH}"/>
	    <zk:retry-policy>
	        <zk:bounded-exponential-backoff base-sleep-time="100"
	                                        max-sleep-time="2000"
	                                        max-retries="5"/>
	    </zk:retry-policy>
	</zk:client>

The same document in YAML:

	client:
	  connection-string: zk1:2181,zk2:2181
	  namespace: app
	  session-timeout: 30000
	  acl-provider-ref: acls
	  authorization:
	    scheme: digest
	    credentials: ${ZK_AUTH}
	  retry-policy:
	    bounded-exponential-backoff:
	      base-sleep-time: 100
	      max-sleep-time: 2000
	      max-retries: 5

TOML documents use the same shape, with tables for nested elements.

Attributes ending in "-ref" name shared objects, which are resolved
through a Refs map supplied by the caller. Attribute values may refer
to environment variables as ${VAR}; LoadFile expands them from the
process environment and from any .env files given with WithEnvFiles.

Parse errors are *fault.ConfigurationError values of kind
fault.InvalidAttribute, fault.DuplicateElement or
fault.UnresolvedReference.
*/
package config
