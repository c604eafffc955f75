package database

import (
	"database/sql"

	"go.uber.org/zap"
)

// Cluster bundles the authoritative primary connection with an optional
// read replica.  Repositories ask for a role explicitly: Primary() for
// writes and every query that feeds a conflict check, Read() for
// catalog lookups that tolerate replication lag.  Routing is never
// inferred from process arguments or a test-mode flag; the cluster is
// built once from configuration and injected.
type Cluster struct {
	primary *sql.DB
	replica *sql.DB // nil when no replica is configured
	log     *zap.Logger
}

// NewCluster builds a Cluster around the given pools.  primary must be
// non-nil; replica may be nil, in which case Read() always returns the
// primary.
func NewCluster(primary, replica *sql.DB, log *zap.Logger) *Cluster {
	if primary == nil {
		panic("nil primary passed to NewCluster")
	}
	return &Cluster{primary: primary, replica: replica, log: log}
}

// Primary returns the authoritative read/write pool.  Conflict
// validation and the busy-room computation must use this handle: a
// lagging replica could report a room as free while a concurrent
// booking already claimed it.
func (c *Cluster) Primary() *sql.DB {
	return c.primary
}

// Read returns the pool for replica-eligible reads, or the primary when
// no replica is configured.  Callers that hit a replica error should
// retry once against Primary(); replica loss only costs read scaling,
// never correctness.
func (c *Cluster) Read() *sql.DB {
	if c.replica == nil {
		return c.primary
	}
	return c.replica
}

// HasReplica reports whether a distinct replica pool is configured.
func (c *Cluster) HasReplica() bool {
	return c.replica != nil
}

// ReportReplicaError logs a failed replica read before the caller
// degrades to the primary.
func (c *Cluster) ReportReplicaError(err error) {
	if c.log != nil {
		c.log.Warn("replica read failed, degrading to primary", zap.Error(err))
	}
}

// Close closes both pools.  Errors from the replica are ignored since
// the primary error is the one that matters at shutdown.
func (c *Cluster) Close() error {
	if c.replica != nil {
		_ = c.replica.Close()
	}
	return c.primary.Close()
}
