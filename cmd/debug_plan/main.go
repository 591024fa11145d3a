package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"sheet-sync/core/reconcile"
	"sheet-sync/core/xlsx"
	"sheet-sync/feature/registry"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: debug_plan <preset> <source.xlsx> [target.xlsx]")
		os.Exit(2)
	}
	presetName, srcPath := os.Args[1], os.Args[2]
	tgtPath := srcPath
	if len(os.Args) > 3 {
		tgtPath = os.Args[3]
	}

	p, err := registry.ByName(presetName)
	if err != nil {
		log.Fatal(err)
	}

	// Test 1: Open local workbook copies
	fmt.Println("=== TEST 1: Workbook Loading ===")
	srcWB := openLocal(srcPath)
	tgtWB := srcWB
	if tgtPath != srcPath {
		tgtWB = openLocal(tgtPath)
	}
	fmt.Printf("Source sheets: %v\n", srcWB.SheetNames())
	if tgtWB != srcWB {
		fmt.Printf("Target sheets: %v\n", tgtWB.SheetNames())
	}

	// Test 2: Sheet and header binding
	fmt.Println("\n=== TEST 2: Sheet Binding ===")
	src, err := srcWB.Sheet(p.SourceSheet)
	if err != nil {
		log.Fatal(err)
	}

	tgt, err := tgtWB.Sheet(p.TargetSheet)
	if err != nil {
		if !p.CreateTarget {
			log.Fatal(err)
		}
		tgt, err = tgtWB.CreateSheet(p.TargetSheet)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Created missing target sheet %q\n", p.TargetSheet)
	}
	for _, name := range p.EnsureTarget {
		tgt.EnsureColumn(name)
	}

	fmt.Printf("Source headers: %v\n", headerNames(src))
	fmt.Printf("Target headers: %v\n", headerNames(tgt))

	// Test 3: Build the plan without applying it
	fmt.Println("\n=== TEST 3: Plan ===")
	plan, err := reconcile.BuildPlan(src, tgt, p.Rules)
	if err != nil {
		log.Fatal(err)
	}

	s := plan.Summary
	fmt.Printf("source_keys=%d matched=%d updated=%d inserted=%d cleared=%d deleted=%d\n",
		s.SourceKeys, s.Matched, s.Updated, s.Inserted, s.Cleared, s.Deleted)

	for i, a := range plan.Actions {
		if i == 10 {
			fmt.Printf("... %d more actions\n", len(plan.Actions)-10)
			break
		}
		fmt.Printf("  %s key=%s row=%d reason=%s\n", a.Type, a.Key, a.Row, a.Reason)
	}

	// Save detailed output
	data, _ := json.MarshalIndent(plan, "", "  ")
	os.WriteFile("debug_plan.json", data, 0644)

	fmt.Println("\nDebug complete. Check debug_plan.json for details.")
}

func openLocal(path string) *xlsx.Workbook {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	wb, err := xlsx.OpenWorkbook(data)
	if err != nil {
		log.Fatal(err)
	}
	return wb
}

// headerNames returns the sheet's headers in column order.
func headerNames(s *xlsx.Sheet) []string {
	byCol := make(map[int]string)
	max := 0
	for name, col := range s.Header() {
		byCol[col] = name
		if col > max {
			max = col
		}
	}
	names := make([]string, 0, len(byCol))
	for col := 1; col <= max; col++ {
		if name, ok := byCol[col]; ok {
			names = append(names, name)
		}
	}
	return names
}
