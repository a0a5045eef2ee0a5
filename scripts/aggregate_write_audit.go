// Command aggregate_write_audit reports service methods that write method
// graph tables directly instead of going through an aggregate.
//
//	go run ./scripts [-strict] [root]
//
// With -strict the command exits 2 when any such write is found.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type repoField struct {
	Name     string `json:"name"`
	RepoType string `json:"repo_type"`
	Guarded  bool   `json:"guarded"`
}

type methodStats struct {
	StructName          string   `json:"struct_name"`
	Method              string   `json:"method"`
	File                string   `json:"file"`
	Line                int      `json:"line"`
	GuardedWrites       int      `json:"guarded_writes"`
	GuardedFields       []string `json:"guarded_fields,omitempty"`
	AggregateCalls      int      `json:"aggregate_calls"`
	AggregateOperations []string `json:"aggregate_operations,omitempty"`
}

type auditReport struct {
	GuardedWriteCallsites int           `json:"guarded_write_callsites"`
	AggregateCallsites    int           `json:"aggregate_callsites"`
	Violations            []methodStats `json:"violations"`
	AggregateUsers        []methodStats `json:"aggregate_users"`
	RepoFields            []repoField   `json:"repo_fields"`
}

type structFields struct {
	Repos      map[string]repoField
	Aggregates map[string]string
}

// Tables whose rows only aggregates may write: the method graph and the
// version lifecycle.
var guardedRepos = map[string]bool{
	"MakeMethodRepo":      true,
	"MethodMaterialRepo":  true,
	"MethodOperationRepo": true,
	"QuoteMakeMethodRepo": true,
}

var repoWriteMethods = map[string]bool{
	"Create":                true,
	"CreateBatch":           true,
	"Update":                true,
	"UpdateStatus":          true,
	"Upsert":                true,
	"Delete":                true,
	"DeleteByMakeMethods":   true,
	"DeleteByIDs":           true,
	"DeactivateOthers":      true,
	"SetLineConfiguration":  true,
	"FindOrCreateUngrouped": true,
	"MoveToGroup":           true,
	"SetDefaultRevision":    true,
	"CreateLine":            true,
}

var aggregateOperations = map[string]bool{
	"EnsureForItem": true,
	"CreateVersion": true,
	"Activate":      true,
	"Clone":         true,
}

func main() {
	strict := flag.Bool("strict", false, "exit 2 when services write guarded tables directly")
	flag.Parse()
	root := "."
	if flag.NArg() > 0 {
		root = flag.Arg(0)
	}

	report, err := audit(root)
	if err != nil {
		exitf("%v", err)
	}
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		exitf("marshal report: %v", err)
	}
	fmt.Println(string(out))
	if *strict && len(report.Violations) > 0 {
		os.Exit(2)
	}
}

func audit(root string) (auditReport, error) {
	servicesDir := filepath.Join(root, "internal", "services")
	fset := token.NewFileSet()
	pkgs, err := parser.ParseDir(fset, servicesDir, func(fi fs.FileInfo) bool {
		name := fi.Name()
		return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
	}, 0)
	if err != nil {
		return auditReport{}, fmt.Errorf("parse %s: %w", servicesDir, err)
	}
	pkg, ok := pkgs["services"]
	if !ok {
		return auditReport{}, fmt.Errorf("services package not found in %s", servicesDir)
	}

	fieldsByStruct := map[string]structFields{}
	for _, f := range pkg.Files {
		collectStructFields(f, fieldsByStruct)
	}
	var methods []methodStats
	for path, f := range pkg.Files {
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		collectMethodStats(fset, f, rel, fieldsByStruct, &methods)
	}
	return buildReport(fieldsByStruct, methods), nil
}

func collectStructFields(file *ast.File, out map[string]structFields) {
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			st, ok := ts.Type.(*ast.StructType)
			if !ok || st.Fields == nil {
				continue
			}
			sf := structFields{Repos: map[string]repoField{}, Aggregates: map[string]string{}}
			for _, field := range st.Fields.List {
				if len(field.Names) == 0 {
					continue
				}
				sel, ok := field.Type.(*ast.SelectorExpr)
				if !ok {
					continue
				}
				pkgIdent, ok := sel.X.(*ast.Ident)
				if !ok {
					continue
				}
				name, typ := field.Names[0].Name, sel.Sel.Name
				switch {
				case pkgIdent.Name == "repos" && strings.HasSuffix(typ, "Repo"):
					sf.Repos[name] = repoField{Name: name, RepoType: typ, Guarded: guardedRepos[typ]}
				case pkgIdent.Name == "domainagg" && strings.HasSuffix(typ, "Aggregate"):
					sf.Aggregates[name] = typ
				}
			}
			if len(sf.Repos) > 0 || len(sf.Aggregates) > 0 {
				out[ts.Name.Name] = sf
			}
		}
	}
}

func collectMethodStats(fset *token.FileSet, file *ast.File, relFile string, fieldsByStruct map[string]structFields, out *[]methodStats) {
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Recv == nil || fd.Body == nil || len(fd.Recv.List) == 0 {
			continue
		}
		recvName, recvType := recvInfo(fd.Recv.List[0])
		sf, ok := fieldsByStruct[recvType]
		if recvName == "" || !ok {
			continue
		}

		stats := methodStats{
			StructName: recvType,
			Method:     fd.Name.Name,
			File:       filepath.ToSlash(relFile),
			Line:       fset.Position(fd.Pos()).Line,
		}
		fields := map[string]bool{}
		ops := map[string]bool{}

		// matches <recv>.<field>.<method>(...)
		ast.Inspect(fd.Body, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok {
				return true
			}
			fnSel, ok := call.Fun.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			rcvSel, ok := fnSel.X.(*ast.SelectorExpr)
			if !ok {
				return true
			}
			if base, ok := rcvSel.X.(*ast.Ident); !ok || base.Name != recvName {
				return true
			}
			field, method := rcvSel.Sel.Name, fnSel.Sel.Name
			if rf, ok := sf.Repos[field]; ok && rf.Guarded && repoWriteMethods[method] {
				stats.GuardedWrites++
				fields[field] = true
			}
			if _, ok := sf.Aggregates[field]; ok && aggregateOperations[method] {
				stats.AggregateCalls++
				ops[method] = true
			}
			return true
		})
		stats.GuardedFields = sortedKeys(fields)
		stats.AggregateOperations = sortedKeys(ops)
		*out = append(*out, stats)
	}
}

func buildReport(fieldsByStruct map[string]structFields, methods []methodStats) auditReport {
	sort.Slice(methods, func(i, j int) bool {
		if methods[i].File == methods[j].File {
			return methods[i].Line < methods[j].Line
		}
		return methods[i].File < methods[j].File
	})

	report := auditReport{Violations: []methodStats{}, AggregateUsers: []methodStats{}}
	for _, m := range methods {
		if m.GuardedWrites > 0 {
			report.GuardedWriteCallsites += m.GuardedWrites
			report.Violations = append(report.Violations, m)
		}
		if m.AggregateCalls > 0 {
			report.AggregateCallsites += m.AggregateCalls
			report.AggregateUsers = append(report.AggregateUsers, m)
		}
	}

	keys := make([]string, 0)
	all := map[string]repoField{}
	for structName, sf := range fieldsByStruct {
		for _, rf := range sf.Repos {
			k := structName + "." + rf.Name
			all[k] = rf
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		report.RepoFields = append(report.RepoFields, all[k])
	}
	return report
}

func recvInfo(field *ast.Field) (string, string) {
	if field == nil || len(field.Names) == 0 {
		return "", ""
	}
	recvName := field.Names[0].Name
	switch t := field.Type.(type) {
	case *ast.StarExpr:
		if id, ok := t.X.(*ast.Ident); ok {
			return recvName, id.Name
		}
	case *ast.Ident:
		return recvName, t.Name
	}
	return "", ""
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
