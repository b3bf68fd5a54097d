// Command plcost loads a netlist and optional placement file and prints
// the wirelength, density and congestion costs. It is a thin diagnostic
// shell around the engine package; TCL emission and LEF/DEF conversion
// belong to a full place-and-route flow, not to this cost evaluator.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/RustamC/MacroPlacement/engine"
	"github.com/RustamC/MacroPlacement/netlist"
)

func main() {
	netlistPath := flag.String("netlist", "", "path to a textual netlist file (required)")
	placementPath := flag.String("placement", "", "optional path to a .plc placement file to restore")
	validate := flag.Bool("validate", true, "validate the placement file's index set against the netlist")
	readComment := flag.Bool("read-comment", true, "apply the placement file's metadata comments to engine configuration")
	flag.Parse()

	if *netlistPath == "" {
		log.Fatal("plcost: -netlist is required")
	}

	g, err := netlist.Read(*netlistPath)
	if err != nil {
		log.Fatalf("plcost: reading netlist: %v", err)
	}

	c := engine.New(g)

	if *placementPath != "" {
		if _, err := c.RestorePlacement(*placementPath, *validate, *readComment); err != nil {
			log.Fatalf("plcost: restoring placement: %v", err)
		}
	}

	wl := c.Wirelength()
	dens := c.Density()
	cong := c.Congestion()

	fmt.Printf("Modules          : %d\n", len(c.Modules()))
	fmt.Printf("Placeable        : %d\n", len(c.PlaceableIndices()))
	fmt.Printf("Wirelength (HPWL): %g\n", wl.HPWL)
	fmt.Printf("Wirelength cost  : %g\n", wl.Cost)
	fmt.Printf("Density cost     : %g\n", dens.Cost)
	fmt.Printf("Congestion cost  : %g\n", cong.Cost)
}
