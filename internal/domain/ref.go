package domain

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RefKind enumerates the shapes a stored relationship value can take.
// The data was persisted inconsistently across schema revisions, so all
// of them must keep decoding indefinitely.
type RefKind uint8

const (
	// RefUnknown is anything that matches none of the shapes below.
	// It never resolves; callers degrade instead of erroring.
	RefUnknown RefKind = iota
	// RefLazyLink is a full DBRef {"$ref": collection, "$id": oid}, the
	// shape every new write uses. Resolving one fetches the referenced
	// document, the only variant that costs a store round-trip.
	RefLazyLink
	// RefDBRefWrapper is a document carrying a bare "$id" key, either a
	// raw value or an {"$oid": "..."} wrapper.
	RefDBRefWrapper
	// RefDirectID is a document carrying a plain "id" key.
	RefDirectID
	// RefRawString is a bare string id.
	RefRawString
)

// RefFetcher loads the document a lazy link points at and returns its
// canonical id.
type RefFetcher func(ctx context.Context, id string) (string, error)

// Ref is a stored reference to a user or product document. The zero
// value is RefUnknown.
type Ref struct {
	Kind       RefKind
	Collection string // lazy links only
	ID         string // id as stored: objectid hex or raw string
}

func NewUserRef(id primitive.ObjectID) Ref {
	return Ref{Kind: RefLazyLink, Collection: "users", ID: id.Hex()}
}

func NewProductRef(id primitive.ObjectID) Ref {
	return Ref{Kind: RefLazyLink, Collection: "products", ID: id.Hex()}
}

// Resolve normalizes the reference to a canonical id. The boolean is
// false when the id cannot be determined; historical rows may stay
// ambiguous forever, so this is not an error.
func (r Ref) Resolve(ctx context.Context, fetch RefFetcher) (string, bool) {
	switch r.Kind {
	case RefLazyLink:
		if r.ID == "" || fetch == nil {
			return "", false
		}
		id, err := fetch(ctx, r.ID)
		if err != nil {
			return "", false
		}
		return id, true
	case RefDBRefWrapper, RefDirectID, RefRawString:
		if r.ID == "" {
			return "", false
		}
		return r.ID, true
	default:
		return "", false
	}
}

func (r Ref) MarshalBSONValue() (bsontype.Type, []byte, error) {
	switch r.Kind {
	case RefLazyLink:
		return bson.MarshalValue(bson.D{
			{Key: "$ref", Value: r.Collection},
			{Key: "$id", Value: idValue(r.ID)},
		})
	case RefDBRefWrapper:
		return bson.MarshalValue(bson.D{{Key: "$id", Value: idValue(r.ID)}})
	case RefDirectID:
		return bson.MarshalValue(bson.D{{Key: "id", Value: idValue(r.ID)}})
	case RefRawString:
		return bson.MarshalValue(r.ID)
	default:
		return bson.MarshalValue(primitive.Null{})
	}
}

func (r *Ref) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	*r = Ref{}
	switch t {
	case bson.TypeString:
		rv := bson.RawValue{Type: t, Value: data}
		r.Kind = RefRawString
		r.ID = rv.StringValue()
	case bson.TypeEmbeddedDocument:
		doc := bson.Raw(data)
		if ref, err := doc.LookupErr("$ref"); err == nil {
			r.Kind = RefLazyLink
			r.Collection, _ = ref.StringValueOK()
			if idv, err := doc.LookupErr("$id"); err == nil {
				r.ID = rawIDString(idv)
			}
		} else if idv, err := doc.LookupErr("$id"); err == nil {
			r.Kind = RefDBRefWrapper
			r.ID = rawIDString(idv)
		} else if idv, err := doc.LookupErr("id"); err == nil {
			r.Kind = RefDirectID
			r.ID = rawIDString(idv)
		}
	}
	return nil
}

// idValue renders an id for storage: objectid when the string is valid
// hex, the raw string otherwise.
func idValue(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func rawIDString(rv bson.RawValue) string {
	if oid, ok := rv.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := rv.StringValueOK(); ok {
		return s
	}
	if doc, ok := rv.DocumentOK(); ok {
		if inner, err := doc.LookupErr("$oid"); err == nil {
			return rawIDString(inner)
		}
	}
	return ""
}
