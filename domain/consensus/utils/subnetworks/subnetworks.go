// Package subnetworks defines the reserved subnetwork identifiers.
package subnetworks

import "github.com/jio-labs/jiod/domain/consensus/model/externalapi"

// SubnetworkIDCoinbase is the reserved subnetwork identifier of coinbase
// transactions: the all-zero 20-byte identifier (spec §6).
var SubnetworkIDCoinbase = externalapi.DomainSubnetworkID{}

// SubnetworkIDNative is the subnetwork identifier of ordinary,
// non-subnetwork-specific transactions.
var SubnetworkIDNative = externalapi.DomainSubnetworkID{0x01}
