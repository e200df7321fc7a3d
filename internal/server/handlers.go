package server

import (
	"github.com/gofiber/fiber/v3"
	"github.com/vk/depgridgo/internal/address"
	"github.com/vk/depgridgo/internal/dependents"
	"github.com/vk/depgridgo/internal/paths"
	"github.com/vk/depgridgo/internal/target"
)

type targetView struct {
	Address     string   `json:"address"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Deps        []string `json:"deps"`
}

type dependentsRequest struct {
	Roots        []string `json:"roots"`
	Transitive   bool     `json:"transitive"`
	IncludeRoots bool     `json:"include_roots"`
}

type pathsRequest struct {
	From []string `json:"from"`
	To   []string `json:"to"`
}

func (s *Server) handleHealthz(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleListTargets(c fiber.Ctx) error {
	targets := s.graph.AllTargets(c.Context())

	views := make([]targetView, 0, len(targets))
	for _, tgt := range targets {
		views = append(views, targetView{
			Address:     tgt.Address.String(),
			Description: tgt.Description,
			Tags:        tgt.Tags,
			Deps:        address.Specs(tgt.Dependencies(target.PolicyAll)),
		})
	}
	return c.JSON(views)
}

func (s *Server) handleDependents(c fiber.Ctx) error {
	var req dependentsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if len(req.Roots) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "roots must not be empty"})
	}

	roots, err := s.graph.ResolveAddresses(c.Context(), req.Roots)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	index := dependents.BuildReverseIndex(s.graph.AllTargets(c.Context()))

	result := make(map[string][]string, len(roots))
	for _, root := range roots {
		found := dependents.Find(dependents.Request{
			Roots:        []address.Address{root},
			Transitive:   req.Transitive,
			IncludeRoots: req.IncludeRoots,
		}, index)
		result[root.String()] = address.Specs(found.Sorted())
	}
	return c.JSON(fiber.Map{"dependents": result})
}

func (s *Server) handlePaths(c fiber.Ctx) error {
	var req pathsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if len(req.From) == 0 || len(req.To) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from and to must not be empty"})
	}

	from, err := s.graph.ResolveAddresses(c.Context(), req.From)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	to, err := s.graph.ResolveAddresses(c.Context(), req.To)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	adjacencyFor := func(root address.Address) (paths.Adjacency, error) {
		adj, err := s.graph.Adjacency(c.Context(), root, target.PolicyAll)
		if err != nil {
			return nil, err
		}
		return paths.Adjacency(adj), nil
	}

	found, err := paths.Between(adjacencyFor, from, to)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	specPaths := make([][]string, 0, len(found))
	for _, p := range found {
		specPaths = append(specPaths, address.Specs(p))
	}
	return c.JSON(fiber.Map{"paths": specPaths})
}
