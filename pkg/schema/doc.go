// Package schema describes the catalog of services, providers and the field
// descriptors that drive the send-money form. The types are pure data; the
// only behaviour is lookup and the kind-specific rules resolved by switch.
package schema
