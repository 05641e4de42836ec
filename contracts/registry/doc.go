/*
Package registry contains implementation of the Registry contract for the
cold chain provenance suite.

Registry contract stores and manages item records: who manufactured an item,
who holds it now, its delivery status and its regulator certification mark.
Monitoring data never lands here; the Anchor contract keeps per-item digest
timelines and consults this contract for existence and custody lookups.

Items are identified by dense numeric identifiers allocated at registration,
starting from 1 and never reused, so the identifier order is the
registration order.

# Contract notifications

Registered notification. This notification is produced when a manufacturer
creates a new item record.

	Registered
	  - name: id
	    type: Integer
	  - name: manufacturer
	    type: Hash160
	  - name: sku
	    type: String
	  - name: metadataURI
	    type: String
	  - name: timestamp
	    type: Integer

CustodyTransferred notification. This notification is produced when the
current custodian hands the item over to the next one.

	CustodyTransferred
	  - name: id
	    type: Integer
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: notes
	    type: ByteArray
	  - name: timestamp
	    type: Integer

StatusUpdated notification. This notification is produced when the custodian
or the manufacturer changes the delivery status of the item.

	StatusUpdated
	  - name: id
	    type: Integer
	  - name: status
	    type: Integer
	  - name: notes
	    type: ByteArray
	  - name: timestamp
	    type: Integer

Certified notification. This notification is produced when a regulator marks
the item as certified.

	Certified
	  - name: id
	    type: Integer
	  - name: regulator
	    type: Hash160
	  - name: note
	    type: ByteArray
	  - name: timestamp
	    type: Integer
*/
package registry

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'accessScriptHash' -> 20-byte script hash
   Access contract reference
 - 'itemCount' -> int
   identifier of the latest registered item, 0 items when absent
 - 'x<id>' -> std.Serialize(Item)
   item record by identifier, id is encoded as 8-byte BE integer
 - 'i<id>' -> int
   plain identifier index used for ordered listing, same BE encoding
 - 'o<owner><id>' -> int
   per-custodian identifier index, moved on every custody transfer

# Items
Item records are fixed-size: optional per-operation notes ride on
notifications only and are never stored. Records are never deleted, an item
stays on the ledger for good once registered.

# Identifiers
8-byte big-endian identifier encoding keeps lexicographic key order equal to
numeric order, so storage.Find over the 'i' and 'o' indexes yields
identifiers in registration order without sorting.
*/
