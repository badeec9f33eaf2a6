package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/matzehuels/dirgraph/pkg/graph"
)

// keyVersion is mixed into every key. Bump it when rendered output changes
// for identical inputs so stale artifacts stop matching.
const keyVersion = 1

// hashKey returns "<kind>:<sha256>" over the key version, the graph hash and
// the options record.
func hashKey(kind, graphHash string, opts any) string {
	data, _ := json.Marshal(struct {
		V     int    `json:"v"`
		Graph string `json:"graph"`
		Opts  any    `json:"opts"`
	}{keyVersion, graphHash, opts})
	return kind + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GraphHash identifies a graph by its JSON document. Node and relation order
// is part of the identity because it decides the order of emitted lines.
// It returns "" when the graph cannot be encoded.
func GraphHash(g graph.Graph) string {
	data, err := graph.Marshal(g, graph.FormatJSON)
	if err != nil {
		return ""
	}
	return Hash(data)
}
