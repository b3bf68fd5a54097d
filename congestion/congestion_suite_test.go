package congestion_test

import (
	"testing"

	"github.com/RustamC/MacroPlacement/congestion"
	"github.com/RustamC/MacroPlacement/grid"
	"github.com/RustamC/MacroPlacement/model"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCongestionSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Congestion Routing Suite")
}

func threePinGraph(positions [3][2]float64) *model.Graph {
	g := model.NewGraph()
	port, _ := g.AddPort("P0")
	port.SetPosition(positions[0][0], positions[0][1])

	m1, _ := g.AddMacro("m1", false)
	m1.SetPosition(positions[1][0], positions[1][1])
	m1.SetSize(1, 1)
	m2, _ := g.AddMacro("m2", false)
	m2.SetPosition(positions[2][0], positions[2][1])
	m2.SetSize(1, 1)

	g.AddPin("m1/p", false, "m1")
	g.AddPin("m2/p", false, "m2")

	portIdx, _ := g.IndexOf("P0")
	p1Idx, _ := g.IndexOf("m1/p")
	g.AddSink(portIdx, "m1/p")
	g.AddSink(portIdx, "m2/p")
	_ = p1Idx
	return g
}

var _ = Describe("Three-pin net routing", func() {
	canvas := grid.New(10, 10, 10, 10)
	cfg := congestion.Config{VRoutesPerMicron: 1, HRoutesPerMicron: 1}

	Context("given points forming an L-shape", func() {
		It("routes two H segments and two V segments without losing demand", func() {
			g := threePinGraph([3][2]float64{{1, 1}, {5, 5}, {8, 8}})
			res := congestion.Compute(g, canvas, cfg)

			var totalH, totalV float64
			for _, v := range res.HRoutingNet {
				totalH += v
			}
			for _, v := range res.VRoutingNet {
				totalV += v
			}
			Expect(totalH).To(BeNumerically(">", 0))
			Expect(totalV).To(BeNumerically(">", 0))
		})
	})

	Context("given points sharing the same row", func() {
		It("routes purely horizontally with one vertical stub", func() {
			g := threePinGraph([3][2]float64{{1, 5}, {4, 5}, {8, 5}})
			res := congestion.Compute(g, canvas, cfg)

			rowIdx := canvas.CellIndex(5, 1)
			Expect(res.HRoutingNet[rowIdx]).To(BeNumerically(">", 0))
		})
	})

	Context("given a T-shape configuration", func() {
		It("routes one H spine and two V stubs", func() {
			g := threePinGraph([3][2]float64{{1, 2}, {8, 2}, {4, 8}})
			res := congestion.Compute(g, canvas, cfg)

			var total float64
			for _, v := range res.VRoutingNet {
				total += v
			}
			Expect(total).To(BeNumerically(">", 0))
		})
	})
})

var _ = Describe("Macro-occupancy congestion with partial cell overlap", func() {
	It("subtracts the top-row and right-column contribution for a non-grid-aligned macro", func() {
		g := model.NewGraph()
		m, _ := g.AddMacro("m", true)
		m.SetPosition(5, 5)
		m.SetSize(3, 3)
		m.SetPlaced(true)

		canvas := grid.New(10, 10, 10, 10)
		cfg := congestion.Config{VRoutingAlloc: 1, HRoutingAlloc: 1}
		res := congestion.Compute(g, canvas, cfg)

		// footprint [3.5,6.5]x[3.5,6.5] on a 1x1-cell grid spans rows/cols
		// 3..6, partially overlapping row 3 (bottom) and row 6 (top).
		rowLo, colLo := canvas.CellOf(3.5+1e-6, 3.5+1e-6)
		rowHi, _ := canvas.CellOf(6.5-1e-6, 6.5-1e-6)
		topIdx := canvas.CellIndex(rowHi, colLo)
		interiorIdx := canvas.CellIndex((rowLo+rowHi)/2, colLo)

		Expect(res.VMacro[topIdx]).To(BeNumerically("<", res.VMacro[interiorIdx]))
	})
})

var _ = Describe("Smoothing", func() {
	It("is a no-op when smooth range is zero", func() {
		g := twoPinGraphForSuite()
		canvas := grid.New(10, 10, 10, 10)
		cfg := congestion.Config{HRoutesPerMicron: 1, VRoutesPerMicron: 1, SmoothRange: 0}
		res := congestion.Compute(g, canvas, cfg)

		idx := canvas.CellIndex(5, 0)
		Expect(res.HCombined[idx]).To(BeNumerically("~", res.HRoutingNet[idx], 1e-9))
	})
})

func twoPinGraphForSuite() *model.Graph {
	g := model.NewGraph()
	port, _ := g.AddPort("P0")
	port.SetPosition(0, 5)
	macro, _ := g.AddMacro("m", false)
	macro.SetPosition(10, 5)
	macro.SetSize(1, 1)
	g.AddPin("m/p", false, "m")
	portIdx, _ := g.IndexOf("P0")
	g.AddSink(portIdx, "m/p")
	return g
}
