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
	"fmt"
	"os"
	"time"

	"github.com/ghodss/yaml"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hydroscale/meshts/dfsu"
	"github.com/hydroscale/meshts/eum"
	"github.com/hydroscale/meshts/mesh"
	"github.com/hydroscale/meshts/utils"
)

// Parameters obtained from the YAML container spec file
type ContainerSpec struct {
	Title     string     `yaml:"Title"`
	StartTime string     `yaml:"StartTime"` // RFC3339, default now
	Dt        float64    `yaml:"Dt"`
	TimeUnit  string     `yaml:"TimeUnit"` // second, minute, hour, day
	TimeSteps int        `yaml:"TimeSteps"`
	Items     []ItemSpec `yaml:"Items"`
}

type ItemSpec struct {
	Name     string  `yaml:"Name"`
	Quantity int32   `yaml:"Quantity"`
	Unit     int32   `yaml:"Unit"`
	Fill     float64 `yaml:"Fill"`
}

func (sp *ContainerSpec) Parse(data []byte) error {
	return yaml.Unmarshal(data, sp)
}

var timeUnitNames = map[string]eum.TimeStepUnit{
	"":       eum.StepSecond,
	"second": eum.StepSecond,
	"minute": eum.StepMinute,
	"hour":   eum.StepHour,
	"day":    eum.StepDay,
}

// parseTimeUnit resolves a spec time unit name; the empty name means seconds.
func parseTimeUnit(name string) (eum.TimeStepUnit, error) {
	unit, ok := timeUnitNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown time unit %q, want second, minute, hour or day", name)
	}
	return unit, nil
}

// createCmd builds a new container from a mesh file and a yaml spec
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a container from a mesh file and a yaml item/time spec",
	Run: func(cmd *cobra.Command, args []string) {
		meshFile, _ := cmd.Flags().GetString("mesh")
		outFile, _ := cmd.Flags().GetString("output")
		specFile, _ := cmd.Flags().GetString("spec")
		if meshFile == "" || outFile == "" || specFile == "" {
			log.Fatal("create requires --mesh, --output and --spec")
		}

		raw, err := os.ReadFile(specFile)
		if err != nil {
			log.Fatalf("reading spec %s: %v", specFile, err)
		}
		sp := &ContainerSpec{}
		if err = sp.Parse(raw); err != nil {
			log.Fatalf("parsing spec %s: %v", specFile, err)
		}
		if len(sp.Items) == 0 {
			log.Fatalf("spec %s declares no items", specFile)
		}
		if sp.TimeSteps < 1 {
			sp.TimeSteps = 1
		}

		timeUnit, err := parseTimeUnit(sp.TimeUnit)
		if err != nil {
			log.Fatalf("parsing spec %s: %v", specFile, err)
		}

		cfg := &dfsu.CreateConfig{
			Title:    sp.Title,
			Dt:       sp.Dt,
			TimeUnit: timeUnit,
		}
		if sp.StartTime != "" {
			if cfg.StartTime, err = time.Parse(time.RFC3339, sp.StartTime); err != nil {
				log.Fatalf("parsing StartTime: %v", err)
			}
		}

		msh, err := mesh.ReadMeshFile(meshFile)
		if err != nil {
			log.Fatalf("reading mesh %s: %v", meshFile, err)
		}

		data := make([]utils.Matrix, len(sp.Items))
		for i, item := range sp.Items {
			cfg.Items = append(cfg.Items, eum.ItemInfo{
				Name:     item.Name,
				Quantity: eum.Quantity(item.Quantity),
				Unit:     eum.Unit(item.Unit),
			})
			m := utils.NewMatrix(sp.TimeSteps, msh.NumElements())
			if item.Fill != 0 {
				d := m.Data()
				for j := range d {
					d[j] = item.Fill
				}
			}
			data[i] = m
		}

		if err = dfsu.Create(meshFile, outFile, data, cfg); err != nil {
			log.Fatalf("creating %s: %v", outFile, err)
		}
		log.Debugf("created %s: %d items, %d steps, %d elements",
			outFile, len(data), sp.TimeSteps, msh.NumElements())
		fmt.Printf("Created %s\n", outFile)
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.Flags().StringP("mesh", "m", "", "mesh file to copy geometry from")
	createCmd.Flags().StringP("output", "o", "", "container file to create")
	createCmd.Flags().StringP("spec", "s", "", "yaml file with title, time axis and items")
}
