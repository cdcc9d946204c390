// Package names generates human-readable run identifiers of the form
// "adjective-noun", matching the naming scheme of the mlsolid tooling.
// Collisions are possible and expected; callers retry against the server.
package names

import (
	"fmt"
	"math/rand/v2"
)

var adjectives = []string{
	"amber", "bold", "brave", "bright", "calm", "clever", "crimson",
	"curious", "dapper", "eager", "fearless", "gentle", "golden", "happy",
	"humble", "jolly", "keen", "lively", "lucid", "mellow", "nimble",
	"patient", "proud", "quiet", "rapid", "rustic", "silent", "sleek",
	"steady", "swift", "tidy", "vivid", "wise", "zesty",
}

var nouns = []string{
	"badger", "bison", "condor", "cougar", "crane", "dolphin", "falcon",
	"ferret", "finch", "gecko", "heron", "ibis", "jackal", "kestrel",
	"lemur", "lynx", "marmot", "marten", "moose", "narwhal", "ocelot",
	"orca", "osprey", "otter", "panther", "petrel", "puffin", "raven",
	"salmon", "sparrow", "stoat", "tapir", "walrus", "wren",
}

// New returns a random adjective-noun run name.
func New() string {
	return fmt.Sprintf("%s-%s", adjectives[rand.IntN(len(adjectives))], nouns[rand.IntN(len(nouns))])
}
