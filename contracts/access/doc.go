/*
Package access contains implementation of the Access contract for the cold
chain provenance suite.

Access contract stores the two capability sets consulted by the Registry and
Anchor contracts: ingestion agents (identities allowed to commit monitoring
windows) and regulators (identities allowed to certify items). Both sets are
managed exclusively by the administrator identity fixed at contract
deployment; the other contracts of the suite only read them.

# Contract notifications

IngestionAgentSet notification. This notification is produced when the
administrator adds an identity to or removes it from the ingestion agent set.

	IngestionAgentSet
	  - name: agent
	    type: Hash160
	  - name: allowed
	    type: Boolean

RegulatorSet notification. This notification is produced when the
administrator adds an identity to or removes it from the regulator set.

	RegulatorSet
	  - name: regulator
	    type: Hash160
	  - name: allowed
	    type: Boolean
*/
package access

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'adminScriptHash' -> 20-byte script hash
   contract administrator fixed at deployment
 - 'a<identity>' -> 1
   one key per current ingestion agent, absent when the identity is not one
 - 'r<identity>' -> 1
   one key per current regulator, absent when the identity is not one

# Roles
Membership is a bare key presence check, so lookups are cheap and unknown
identities are indistinguishable from removed ones.
*/
