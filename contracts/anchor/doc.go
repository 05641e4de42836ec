/*
Package anchor contains implementation of the Anchor contract for the cold
chain provenance suite.

Anchor contract keeps one append-only digest timeline per registered item.
Off-chain ingestion agents batch raw sensor readings into fixed monitoring
windows, hash every batch and commit the digests here one window at a time;
when the journey ends the custodian or the manufacturer seals the timeline
with a single aggregated root. The contract is a notary, not a verifier: it
fixes what was claimed and when, while checking the seal root against the
window digests is left to an external zero-knowledge verifier that consumes
SealedRoot as its public input. Item existence and custody are resolved
through the Registry contract, ingestion capability through the Access
contract.

Timelines advance strictly one window at a time. The first committed window
has index 1 and the only index a timeline ever accepts is the successor of
the last committed one, which makes both replays and gaps impossible by
construction. Sealing is one-way: a sealed timeline rejects every further
commit and seal for good.

# Contract notifications

WindowCommitted notification. This notification is produced when an
ingestion agent appends one window digest to an item timeline.

	WindowCommitted
	  - name: id
	    type: Integer
	  - name: windowIdx
	    type: Integer
	  - name: digest
	    type: Hash256
	  - name: timestamp
	    type: Integer

Sealed notification. This notification is produced when the item timeline is
closed with its final aggregated root.

	Sealed
	  - name: id
	    type: Integer
	  - name: finalRoot
	    type: Hash256
	  - name: timestamp
	    type: Integer
*/
package anchor

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'registryScriptHash' -> 20-byte script hash
   Registry contract reference
 - 'accessScriptHash' -> 20-byte script hash
   Access contract reference
 - 'w<id><window>' -> 32-byte digest
   committed digest of one monitoring window, id and window index are
   encoded as 8-byte BE integers
 - 'l<id>' -> int
   index of the last committed window of the item timeline, absent while
   nothing has been committed
 - 's<id>' -> std.Serialize(SealRecord)
   seal record of the item timeline, present iff the timeline is sealed

# Reads
Reads addressing the timeline of an unknown item are asymmetric on purpose:
WindowRoot, LastWindow and IterateWindows fail with NotFoundError, while
IsSealed, SealedRoot and SealedAt are total and answer with their absence
values. The latter three are what external verifiers poll, and a verifier
asking about a foreign or not-yet-registered item should get "no seal", not
a fault.
*/
