// shadermake init [name], shadermake new [path]
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/qobs-build/shadermake/internal/builder"
	"github.com/qobs-build/shadermake/internal/msg"
	"github.com/spf13/cobra"
)

func writefile(content string, elem ...string) {
	path := filepath.Join(elem...)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err = os.WriteFile(path, []byte(content), 0o644); err != nil {
			msg.Fatal("create file %s: %v", path, err)
		}
		fmt.Printf("%s file: %s\n", color.HiGreenString("Created"), filepath.ToSlash(path))
	}
}

func mkdir(elem ...string) {
	path := filepath.Join(elem...)
	if err := os.MkdirAll(path, 0o755); err != nil {
		msg.Fatal("mkdir %s: %v", path, err)
	}
}

func getProgramName() string {
	if len(os.Args) == 0 {
		return "shadermake"
	}
	basename := filepath.Base(os.Args[0])
	return strings.TrimSuffix(basename, filepath.Ext(basename))
}

func configTemplate(name string, lib bool) string {
	var sb strings.Builder
	sb.WriteString(`[package]
name = "` + name + `"
description = "This is where I make a renderer."
authors = ["AzureDiamond"]

[target]
`)
	if lib {
		sb.WriteString("lib = true\n")
	}
	sb.WriteString(`sources = ["src/**/*.cpp", "src/**/*.c", "shaders/**/*.hlsl"]
headers = ["src/**/*.h"]

[target."target_os == 'windows'"]
links = ["d3d11", "dxgi"]

[shaders]
entry = "main"
stages = ["vertex", "pixel", "compute"]

# [packages.imgui]
# libs = ["imgui.lib"]
`)
	return sb.String()
}

// initIn initializes a package in an existing specified directory
func initIn(dir, name string, lib bool) {
	writefile(configTemplate(name, lib), dir, builder.ConfigFilename)

	mkdir(dir, "src")
	mkdir(dir, "shaders")

	// shaders/triangle_vx.hlsl
	writefile(`struct VSOut {
    float4 pos : SV_Position;
    float3 color : COLOR;
};

VSOut main(uint id : SV_VertexID) {
    float2 uv = float2((id << 1) & 2, id & 2);
    VSOut o;
    o.pos = float4(uv * float2(2, -2) + float2(-1, 1), 0, 1);
    o.color = float3(uv, 1 - uv.x);
    return o;
}
`, dir, "shaders", "triangle_vx.hlsl")

	// shaders/triangle_px.hlsl
	writefile(`float4 main(float4 pos : SV_Position, float3 color : COLOR) : SV_Target {
    return float4(color, 1);
}
`, dir, "shaders", "triangle_px.hlsl")

	if lib {
		// src/triangle.h
		writefile(`#pragma once

#include <stddef.h>

struct ShaderBlob {
    const void* data;
    size_t size;
};

ShaderBlob triangle_vertex_shader();
ShaderBlob triangle_pixel_shader();
`, dir, "src", "triangle.h")

		// src/triangle.cpp
		writefile(`#include "triangle.h"

// generated by shadermake, see "shadermake steps"
#include "shaders/triangle_vx.h"
#include "shaders/triangle_px.h"

ShaderBlob triangle_vertex_shader() {
    return {cso_triangle_vx, sizeof(cso_triangle_vx)};
}

ShaderBlob triangle_pixel_shader() {
    return {cso_triangle_px, sizeof(cso_triangle_px)};
}
`, dir, "src", "triangle.cpp")
	} else {
		// src/main.cpp
		writefile(`#include <stdio.h>

// generated by shadermake, see "shadermake steps"
#include "shaders/triangle_vx.h"
#include "shaders/triangle_px.h"

int main() {
    printf("vertex shader: %zu bytes\n", sizeof(cso_triangle_vx));
    printf("pixel shader: %zu bytes\n", sizeof(cso_triangle_px));
    return 0;
}
`, dir, "src", "main.cpp")
	}

	// .gitignore
	writefile(`build/
obj/
`, dir, ".gitignore")

	programName := getProgramName()
	fmt.Printf("You can now do %s to compile the shaders, or %s to generate a Visual Studio solution.\n",
		color.HiCyanString(programName+" "+dir), color.HiCyanString(programName+" build -g vs2022 "+dir))
}

var library bool

var initCmd = &cobra.Command{
	Use:   "init [name]",
	Short: "Create a new package in the current directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		initIn(".", args[0], library)
	},
}

var newCmd = &cobra.Command{
	Use:   "new [path]",
	Short: "Create a new package in a new directory",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		mkdir(args[0])
		initIn(args[0], filepath.Base(args[0]), library)
	},
}

func init() {
	// shadermake init subcommand
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&library, "lib", "l", false, "Create a library target")

	// shadermake new subcommand
	rootCmd.AddCommand(newCmd)
	newCmd.Flags().BoolVarP(&library, "lib", "l", false, "Create a library target")
}
