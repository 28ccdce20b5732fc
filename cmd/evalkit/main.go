//
// Tencent is pleased to support the open source community by making trpc-agent-evalkit available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-agent-evalkit is licensed under the Apache License Version 2.0.
//
//

// Command evalkit aggregates, analyzes and visualizes agent evaluation
// results.
package main

import "trpc.group/trpc-go/trpc-agent-evalkit/internal/cli"

func main() {
	cli.Execute()
}
