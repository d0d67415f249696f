package core

import (
	"fmt"
	"sort"

	"github.com/armatureproject/armature/pkg/arm"
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Deployment accumulates resource records and generated parameters for a
// single template build. It is not safe for concurrent use; each build owns
// its own Deployment.
type Deployment struct {
	resources []Resource
	index     map[string]Resource
	params    map[string]arm.Parameter
}

func NewDeployment() *Deployment {
	return &Deployment{
		index:  map[string]Resource{},
		params: map[string]arm.Parameter{},
	}
}

// Add declares resources in order. Declaring two resources with the same
// identity is an error.
func (d *Deployment) Add(resources ...Resource) error {
	for _, res := range resources {
		id := res.Id()
		if _, ok := d.index[id.String()]; ok {
			return fmt.Errorf("resource %s declared twice", id)
		}
		d.resources = append(d.resources, res)
		d.index[id.String()] = res
		zap.S().Debugf("adding resource: %s", id)
	}
	return nil
}

func (d *Deployment) AddParameter(name string, p arm.Parameter) {
	d.params[name] = p
}

// AddBuilt evaluates builders and declares everything they yield. The first
// builder or declaration failure aborts the whole call.
func (d *Deployment) AddBuilt(builders ...Builder) error {
	for _, b := range builders {
		result, err := b.Build()
		if err != nil {
			return err
		}
		if err := d.Add(result.Resources...); err != nil {
			return err
		}
		for _, p := range result.Parameters {
			d.AddParameter(p.Name, p.Parameter)
		}
	}
	return nil
}

func (d *Deployment) Resources() []Resource {
	return d.resources
}

// Render links cross-references into dependsOn edges and projects the full
// template. It performs no I/O and is deterministic for a given deployment.
func (d *Deployment) Render() (*arm.Template, error) {
	dependsOn, err := d.link()
	if err != nil {
		return nil, err
	}

	t := arm.NewTemplate()
	for name, p := range d.params {
		t.Parameters[name] = p
	}
	for _, res := range d.resources {
		rendered, err := res.Render()
		if err != nil {
			return nil, errors.Wrapf(err, "rendering resource %s", res.Id())
		}
		rendered.DependsOn = dependsOn[res.Id().String()]
		t.Resources = append(t.Resources, rendered)
	}
	return t, nil
}

// link resolves every named cross-reference against the declared resource
// set. A reference to an undeclared resource fails the build here, before any
// serialization. Duplicate references collapse to one edge.
func (d *Deployment) link() (map[string][]string, error) {
	g := graph.New(
		func(r Resource) string { return r.Id().String() },
		graph.Directed(),
		graph.Acyclic(),
		graph.PreventCycles(),
	)
	for _, res := range d.resources {
		if err := g.AddVertex(res); err != nil {
			return nil, errors.Wrapf(err, "adding %s to dependency graph", res.Id())
		}
	}

	dependsOn := make(map[string][]string)
	for _, res := range d.resources {
		seen := map[string]struct{}{}
		for _, ref := range res.References() {
			target, ok := d.index[ref.String()]
			if !ok {
				return nil, fmt.Errorf("resource %s references undeclared resource %s", res.Id(), ref)
			}
			if _, dup := seen[ref.String()]; dup {
				continue
			}
			seen[ref.String()] = struct{}{}

			err := g.AddEdge(res.Id().String(), target.Id().String())
			switch {
			case errors.Is(err, graph.ErrEdgeAlreadyExists):
				continue
			case err != nil:
				return nil, errors.Wrapf(err, "linking %s -> %s", res.Id(), ref)
			}
			zap.S().Debugf("linking %s -> %s", res.Id(), ref)
			dependsOn[res.Id().String()] = append(dependsOn[res.Id().String()], target.Id().Expression())
		}
		sort.Strings(dependsOn[res.Id().String()])
	}
	return dependsOn, nil
}
