package uid

import (
	"crypto/rand"
	"math/big"
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
)

// Snowflake generates time-ordered int64 identifiers.
type Snowflake struct {
	node *snowflake.Node
}

// NewSnowflake constructs a Snowflake generator.
//
// The node number is taken from the SNOWFLAKE_NODE environment variable when
// set, otherwise a random node in [0, 1023] is used. Random nodes are fine for
// single-instance deployments; multi-instance deployments should pin the node
// number per instance to keep IDs unique.
func NewSnowflake() (*Snowflake, error) {
	var nodeNum int64

	if v := os.Getenv("SNOWFLAKE_NODE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		nodeNum = n
	} else {
		n, err := rand.Int(rand.Reader, big.NewInt(1024))
		if err != nil {
			return nil, err
		}
		nodeNum = n.Int64()
	}

	node, err := snowflake.NewNode(nodeNum)
	if err != nil {
		return nil, err
	}

	return &Snowflake{node: node}, nil
}

// Generate returns a new snowflake ID.
func (s *Snowflake) Generate() int64 {
	return s.node.Generate().Int64()
}
