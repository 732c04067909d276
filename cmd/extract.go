/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hydroscale/meshts/dfsu"
)

// extractCmd dumps a selection of a container as CSV, one row per
// (item, time step, element) sample
var extractCmd = &cobra.Command{
	Use:   "extract <file.dfsu>",
	Short: "Extract item data from a container as CSV",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		itemNames, _ := cmd.Flags().GetStringSlice("items")
		steps, _ := cmd.Flags().GetIntSlice("steps")
		outFile, _ := cmd.Flags().GetString("output")

		sel := &dfsu.Selection{}
		if len(itemNames) > 0 {
			sel.ItemNames = itemNames
		}
		if len(steps) > 0 {
			sel.TimeSteps = steps
		}

		ds, err := dfsu.Read(args[0], sel)
		if err != nil {
			log.Fatalf("reading %s: %v", args[0], err)
		}
		log.Debugf("read %s", ds)

		out := os.Stdout
		if outFile != "" {
			if out, err = os.Create(outFile); err != nil {
				log.Fatalf("creating %s: %v", outFile, err)
			}
			defer out.Close()
		}

		w := csv.NewWriter(out)
		if err = w.Write([]string{"item", "time", "element", "value"}); err != nil {
			log.Fatalf("writing csv: %v", err)
		}
		for i, item := range ds.Items {
			for ti, ts := range ds.Time {
				row := ds.Data[i].Row(ti)
				for e, val := range row {
					rec := []string{
						item.Name,
						ts.Format(time.RFC3339),
						strconv.Itoa(e),
						"",
					}
					if !math.IsNaN(val) {
						rec[3] = strconv.FormatFloat(val, 'g', -1, 64)
					}
					if err = w.Write(rec); err != nil {
						log.Fatalf("writing csv: %v", err)
					}
				}
			}
		}
		w.Flush()
		if err = w.Error(); err != nil {
			log.Fatalf("writing csv: %v", err)
		}
		if outFile != "" {
			fmt.Printf("Wrote %s\n", outFile)
		}
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringSliceP("items", "i", nil, "item names to extract (default all)")
	extractCmd.Flags().IntSliceP("steps", "t", nil, "time step indices to extract (default all)")
	extractCmd.Flags().StringP("output", "o", "", "output CSV file (default stdout)")
}
