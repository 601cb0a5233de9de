package engine

import (
	"fmt"

	"github.com/bwmarrin/snowflake"
)

// IDSource hands out unique, time-ordered ids for tasks, todos and crystals.
type IDSource interface {
	NextID() int64
}

// SnowflakeIDs generates ids from a snowflake node.
type SnowflakeIDs struct {
	node *snowflake.Node
}

func NewSnowflakeIDs(nodeID int64) (*SnowflakeIDs, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize snowflake: %w", err)
	}
	return &SnowflakeIDs{node: node}, nil
}

func (s *SnowflakeIDs) NextID() int64 {
	return s.node.Generate().Int64()
}
