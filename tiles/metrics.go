package tiles

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var leavesAppended = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tilelog_leaves_appended_total",
	Help: "Number of leaves appended to the log",
})

var tilesCommitted = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tilelog_tiles_committed_total",
	Help: "Number of tile images durably written",
})

var commitConflicts = promauto.NewCounter(prometheus.CounterOpts{
	Name: "tilelog_commit_conflicts_total",
	Help: "Number of commits refused due to a stale tile version",
})
