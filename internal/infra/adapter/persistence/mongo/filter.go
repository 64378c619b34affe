package mongo

import (
	"go.mongodb.org/mongo-driver/bson"

	"newshub/internal/repository"
)

// compileFilter translates the store-agnostic clause list into a MongoDB
// filter document. Top-level clauses AND together; an OR group becomes a
// single $or array.
func compileFilter(f repository.Filter) bson.M {
	out := bson.M{}
	for _, c := range f.Clauses {
		switch c.Kind {
		case repository.ClauseRange:
			rng := bson.M{}
			if c.From != nil {
				rng["$gte"] = *c.From
			}
			if c.To != nil {
				rng["$lte"] = *c.To
			}
			if len(rng) > 0 {
				out[c.Field] = rng
			}
		case repository.ClauseEq:
			out[c.Field] = c.Value
		case repository.ClauseIn:
			out[c.Field] = bson.M{"$in": c.Values}
		case repository.ClauseSubstr:
			out[c.Field] = substrMatch(c.Value)
		case repository.ClauseOr:
			members := make([]bson.M, 0, len(c.Any))
			for _, m := range c.Any {
				members = append(members, bson.M{m.Field: compileMember(m)})
			}
			out["$or"] = members
		}
	}
	return out
}

// compileMember compiles a clause nested inside an OR group. Only equality
// and substring members occur there.
func compileMember(c repository.Clause) any {
	if c.Kind == repository.ClauseSubstr {
		return substrMatch(c.Value)
	}
	return c.Value
}

func substrMatch(value string) bson.M {
	return bson.M{"$regex": value, "$options": "i"}
}
