package pydqg

// Copyright 2018 The go-python Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

import (
	"context"
	"os"
	"strings"

	"github.com/go-python/gpython/py"

	"github.com/dqg-systems/dqg/godqg"
	"github.com/dqg-systems/dqg/libdqg"
	"github.com/dqg-systems/dqg/libdqg/catalog"
	"github.com/dqg-systems/dqg/libdqg/sat"
)

var (
	LIB_VERSION = "v1.2026.1"
)

var (
	pyGraphType     = py.NewType("Graph", "a vertex-coloured graph loaded from a .dre, .txt or .csv file")
	pyStreamType    = py.NewType("QuotientStream", "godqg.QuotientStream")
	pyCatalogType   = py.NewType("Catalog", "godqg.Catalog")
	pyWorkspaceType = py.NewType("Workspace", "collects active session resources and catalogs")
)

type pyGraph struct {
	X           *libdqg.Graph
	wantsTraces bool
}

func (g pyGraph) Type() *py.Type {
	return pyGraphType
}

func (g pyGraph) M__str__() (py.Object, error) {
	writer := strings.Builder{}
	g.X.WriteDreadnaut(&writer)
	return py.String(writer.String()), nil
}

func (g pyGraph) M__repr__() (py.Object, error) {
	return g.M__str__()
}

// Arg 1 (str): pathname
// Arg 2 (int, optional): vertex count for formats that don't carry one
func py_LoadGraph(module py.Object, args py.Tuple) (py.Object, error) {
	var pathname py.Object
	var numVerts py.Object = py.Int(0)
	err := py.UnpackTuple(args, nil, "LoadGraph", 1, 2, &pathname, &numVerts)
	if err != nil {
		return nil, err
	}

	X, wantsTraces, err := libdqg.ReadGraphFile(string(pathname.(py.String)), int(numVerts.(py.Int)))
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Object(pyGraph{X: X, wantsTraces: wantsTraces}), nil
}

func py_Graph_NumVerts(self py.Object, args py.Tuple) (py.Object, error) {
	g := self.(pyGraph)
	return py.Object(py.Int(g.X.NumVerts())), nil
}

func py_Graph_NumEdges(self py.Object, args py.Tuple) (py.Object, error) {
	g := self.(pyGraph)
	return py.Object(py.Int(g.X.NumArcs() / 2)), nil
}

// Arg 1 (str, optional): path of the dreadnaut binary
func py_Graph_Generators(self py.Object, args py.Tuple) (py.Object, error) {
	g := self.(pyGraph)

	opts := libdqg.GroupOpts{
		Mode: libdqg.PickGroupMode(g.X, g.wantsTraces),
	}
	if len(args) > 0 {
		opts.DreadnautPath = string(args[0].(py.String))
	}

	gens, err := libdqg.ComputeGenerators(context.Background(), g.X, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	out := make(py.Tuple, len(gens))
	for gi, perm := range gens {
		out[gi] = py.String(perm.String())
	}
	return py.Object(out), nil
}

func getGraphFromObj(obj py.Object) (pyGraph, error) {
	g, ok := obj.(pyGraph)
	if !ok {
		return pyGraph{}, py.ExceptionNewf(py.TypeError, "expected Graph object (got %v)", obj.Type().Name)
	}
	return g, nil
}

type quotientStream struct {
	*libdqg.QuotientStream
	X *libdqg.Graph
}

func (stream quotientStream) Type() *py.Type {
	return pyStreamType
}

func wrapStream(X *libdqg.Graph, next *libdqg.QuotientStream) py.Object {
	return quotientStream{QuotientStream: next, X: X}
}

// Arg 1 (Graph)
// Arg 2 (bool, optional): enumerate the generator powerset
func py_Quotients(module py.Object, args py.Tuple) (py.Object, error) {
	var graphObj py.Object
	var powerset py.Object = py.False
	err := py.UnpackTuple(args, nil, "Quotients", 1, 2, &graphObj, &powerset)
	if err != nil {
		return nil, err
	}
	g, err := getGraphFromObj(graphObj)
	if err != nil {
		return nil, err
	}

	opts := libdqg.GroupOpts{Mode: libdqg.PickGroupMode(g.X, g.wantsTraces)}
	gens, err := libdqg.ComputeGenerators(context.Background(), g.X, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}

	var src *libdqg.OrbitStream
	if powerset == py.True {
		src = libdqg.StreamPowerset(g.X.NumVerts(), gens)
	} else {
		src = libdqg.StreamFullGroup(g.X.NumVerts(), gens)
	}
	return wrapStream(g.X, src.Build(g.X).Dedupe()), nil
}

func py_Stream_Solve(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(quotientStream)

	// In-process backend so scripts work without external binaries.
	next := stream.Solve(context.Background(), stream.X, &sat.Gophersat{}, 1)
	return wrapStream(stream.X, next), nil
}

func py_Stream_Print(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(quotientStream)

	opts := godqg.PrintOpts{Orbits: true}
	if len(args) > 0 {
		opts.Label = string(args[0].(py.String))
	}
	next := stream.Print(os.Stdout, opts)
	return wrapStream(stream.X, next), nil
}

func py_Stream_Go(self py.Object, args py.Tuple) (py.Object, error) {
	stream := self.(quotientStream)
	return py.Object(py.Int(stream.PullAll())), nil
}

const kWorkspaceAttr = "_Workspace"

type Workspace struct {
	CatalogCtx godqg.CatalogContext
}

func (ws *Workspace) Close() {
	ws.CatalogCtx.Close()
	<-ws.CatalogCtx.Done()
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func py_GetWorkspace(module py.Object, args py.Tuple) (py.Object, error) {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		ws := &Workspace{
			CatalogCtx: godqg.NewCatalogContext(),
		}
		wsObj = ws
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj, nil
}

const (
	READ_ONLY = 0x01
)

func py_Workspace_OpenCatalog(self py.Object, args py.Tuple) (py.Object, error) {
	ws := self.(*Workspace)

	var pathname string
	var flags int32
	err := py.LoadTuple(args, []interface{}{&pathname, &flags})
	if err != nil {
		return nil, err
	}

	opts := godqg.CatalogOpts{
		ReadOnly:   (flags & READ_ONLY) != 0,
		DbPathName: pathname,
	}
	cat, err := catalog.OpenCatalog(ws.CatalogCtx, opts)
	if err != nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "%v", err)
	}
	return py.Object(pyCatalog{cat}), nil
}

func py_Workspace_CatalogExists(self py.Object, args py.Tuple) (py.Object, error) {
	_ = self.(*Workspace)

	var pathname string
	err := py.LoadTuple(args, []interface{}{&pathname})
	if err != nil {
		return nil, err
	}
	_, err = os.Stat(pathname)
	if os.IsNotExist(err) {
		return py.False, nil
	}
	return py.True, nil
}

type pyCatalog struct {
	godqg.Catalog
}

func (cat pyCatalog) Type() *py.Type {
	return pyCatalogType
}

func py_Catalog_Close(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)
	if cat.Catalog != nil {
		cat.Close()
	}
	return py.None, nil
}

func py_Catalog_NumVerdicts(self py.Object, args py.Tuple) (py.Object, error) {
	cat := self.(pyCatalog)

	verdict, err := py.GetInt(args[0])
	if err != nil {
		return nil, err
	}
	return py.Int(cat.NumVerdicts(godqg.Verdict(verdict))), nil
}

func init() {

	/////////////////////////////////
	// Graph
	{
		pyGraphType.Dict["NumVerts"] = py.MustNewMethod("NumVerts", py_Graph_NumVerts, 0, "")
		pyGraphType.Dict["NumEdges"] = py.MustNewMethod("NumEdges", py_Graph_NumEdges, 0, "")
		pyGraphType.Dict["Generators"] = py.MustNewMethod("Generators", py_Graph_Generators, 0, "computes automorphism group generators, returned in cycle notation")
	}

	/////////////////////////////////
	// QuotientStream
	{
		pyStreamType.Dict["Solve"] = py.MustNewMethod("Solve", py_Stream_Solve, 0, "decides descriptiveness of each candidate")
		pyStreamType.Dict["Print"] = py.MustNewMethod("Print", py_Stream_Print, 0, "prints each candidate from the stream")
		pyStreamType.Dict["Go"] = py.MustNewMethod("Go", py_Stream_Go, 0, "counts the candidates output from the stream")
	}

	/////////////////////////////////
	// Catalog
	{
		pyCatalogType.Dict["NumVerdicts"] = py.MustNewMethod("NumVerdicts", py_Catalog_NumVerdicts, 0, "")
		pyCatalogType.Dict["Close"] = py.MustNewMethod("Close", py_Catalog_Close, 0, "")
	}

	/////////////////////////////////
	// Workspace
	{
		pyWorkspaceType.Dict["OpenCatalog"] = py.MustNewMethod("OpenCatalog", py_Workspace_OpenCatalog, 0, "")
		pyWorkspaceType.Dict["CatalogExists"] = py.MustNewMethod("CatalogExists", py_Workspace_CatalogExists, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("LoadGraph", py_LoadGraph, 0, ""),
			py.MustNewMethod("Quotients", py_Quotients, 0, ""),
			py.MustNewMethod("GetWorkspace", py_GetWorkspace, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION":     py.String(LIB_VERSION),
			"DESCRIPTIVE":     py.Int(int(godqg.Descriptive)),
			"NON_DESCRIPTIVE": py.Int(int(godqg.NonDescriptive)),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pydqg",
				Doc:  "descriptive quotient graph gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
