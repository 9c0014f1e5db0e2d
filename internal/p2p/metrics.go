package p2p

import "github.com/prometheus/client_golang/prometheus"

// metrics backs any /metrics exposition by the (out-of-scope) HTTP layer;
// NetworkStats does not read these gauges, it reads the live peer set,
// pool, and chain directly. The gauges live on a private registry owned
// by this node rather than the global default one, so multiple nodes in
// the same process (as in tests) never collide.
type metrics struct {
	registry    *prometheus.Registry
	peers       prometheus.Gauge
	mempoolSize prometheus.Gauge
	height      prometheus.Gauge
	blocksMined prometheus.Counter
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	m := &metrics{
		registry: reg,
		peers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sandichain_p2p_peers",
			Help: "Number of currently connected peers.",
		}),
		mempoolSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sandichain_mempool_size",
			Help: "Number of pending transactions in the mempool.",
		}),
		height: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sandichain_chain_height",
			Help: "Current chain height (genesis = 0).",
		}),
		blocksMined: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sandichain_blocks_mined_total",
			Help: "Total number of blocks this node has mined or adopted as freshly mined.",
		}),
	}
	reg.MustRegister(m.peers, m.mempoolSize, m.height, m.blocksMined)
	return m
}

// Registry exposes the private prometheus registry so an API layer can
// mount /metrics against it.
func (n *Node) Registry() *prometheus.Registry {
	return n.metrics.registry
}
