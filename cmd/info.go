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
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hydroscale/meshts/dfsu"
	"github.com/hydroscale/meshts/mesh"
)

// infoCmd prints a summary of a mesh or container file
var infoCmd = &cobra.Command{
	Use:   "info <file.mesh|file.dfsu>",
	Short: "Print items, time axis and geometry of a mesh or container file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := args[0]
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".mesh":
			meshInfo(filename)
		default:
			containerInfo(filename)
		}
	},
}

func meshInfo(filename string) {
	msh, err := mesh.ReadMeshFile(filename)
	if err != nil {
		log.Fatalf("reading %s: %v", filename, err)
	}
	fmt.Printf("Mesh: %s\n", filename)
	fmt.Printf("Projection: %s (geographic: %v)\n", msh.Projection, msh.IsGeographic())
	fmt.Printf("Nodes: %d, Elements: %d\n", msh.NumNodes(), msh.NumElements())

	var tris, quads int
	for _, el := range msh.Elements {
		if el.Type == mesh.Quad {
			quads++
		} else {
			tris++
		}
	}
	fmt.Printf("Triangles: %d, Quads: %d\n", tris, quads)

	area := msh.ElementAreas()
	fmt.Printf("Element area [m2]: min = %.6g, max = %.6g\n", area.Min(), area.Max())
}

func containerInfo(filename string) {
	f, err := dfsu.Open(filename)
	if err != nil {
		log.Fatalf("opening %s: %v", filename, err)
	}
	defer f.Close()

	fmt.Printf("Container: %s (%s)\n", filename, f.FileType())
	fmt.Printf("Projection: %s (geographic: %v)\n", f.Mesh().Projection, f.IsGeographic())
	fmt.Printf("Nodes: %d, Elements: %d\n", f.NumNodes(), f.NumElements())
	fmt.Printf("Time steps: %d, start: %s\n", f.NumTimeSteps(), f.StartTime().Format("2006-01-02 15:04:05"))
	fmt.Printf("Items:\n")
	for i, item := range f.Items() {
		fmt.Printf("  %d: %s\n", i, item)
	}
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
