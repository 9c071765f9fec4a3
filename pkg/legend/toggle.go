package legend

import "github.com/Sudo-Ivan/embedlegend/pkg/host"

// Toggle flips the checked state of the legend node of layer identified by
// key. The node list is fetched fresh on every call. It reports false when no
// node matches; the caller is responsible for repainting the layer and
// rebuilding the snapshot on success.
func Toggle(provider host.NodeProvider, layer host.VectorLayer, key host.RuleKey) bool {
	if layer == nil || !layer.IsValid() {
		return false
	}
	nodes, ok := provider.LegendNodes(layer)
	if !ok {
		return false
	}
	for _, n := range nodes {
		if n.Key().Equal(key) {
			n.SetChecked(!n.Checked())
			return true
		}
	}
	return false
}
