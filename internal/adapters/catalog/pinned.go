package catalog

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/lode/internal/adapters/config"
	"go.trai.ch/lode/internal/adapters/fs"
	"go.trai.ch/lode/internal/adapters/git"
	"go.trai.ch/lode/internal/core/domain"
	"go.trai.ch/zerr"
)

// pathSource materializes path-sourced candidates: the manifest in the
// directory provides identity and dependencies, the tree digest provides the
// content pin.
type pathSource struct {
	digester *fs.Digester
}

func (p *pathSource) fetch(_ context.Context, req domain.Requirement) (*domain.CandidateVersion, error) {
	dir := req.Source.Path
	manifest, err := config.ReadManifest(dir)
	if err != nil {
		return nil, zerr.With(err, "path", dir)
	}
	if manifest.Name != req.Name {
		return nil, zerr.With(zerr.With(zerr.With(
			zerr.Wrap(domain.ErrNotFound, "path source names a different package"),
			"path", dir), "requested", req.Name.String()), "found", manifest.Name.String())
	}

	digest, err := p.digester.TreeDigest(dir)
	if err != nil {
		return nil, err
	}

	return &domain.CandidateVersion{
		Name:              manifest.Name,
		Version:           manifest.Version,
		Source:            req.Source,
		Pin:               digest,
		Digest:            digest,
		Dependencies:      manifest.Dependencies,
		ExtraDependencies: manifest.Extras,
	}, nil
}

// gitSource materializes git-sourced candidates: the ref resolves to a
// commit, the checkout's manifest provides identity and dependencies, and
// the commit is the content pin.
type gitSource struct {
	manager *git.Manager
}

func (g *gitSource) fetch(ctx context.Context, req domain.Requirement) (*domain.CandidateVersion, error) {
	commit, err := g.manager.ResolveRef(ctx, req.Source.URL, req.Source.Ref)
	if err != nil {
		return nil, err
	}
	checkout, err := g.manager.Checkout(ctx, req.Source.URL, commit)
	if err != nil {
		return nil, err
	}

	dir := checkout
	if req.Source.Subdir != "" {
		dir = filepath.Join(checkout, filepath.Clean(req.Source.Subdir))
	}
	manifest, err := config.ReadManifest(dir)
	if err != nil {
		return nil, zerr.With(zerr.With(err, "url", req.Source.URL), "commit", commit)
	}
	if manifest.Name != req.Name {
		return nil, zerr.With(zerr.With(
			zerr.Wrap(domain.ErrNotFound, "git source names a different package"),
			"requested", req.Name.String()), "found", manifest.Name.String())
	}

	pinned := req.Source
	pinned.Ref = commit

	return &domain.CandidateVersion{
		Name:              manifest.Name,
		Version:           manifest.Version,
		Source:            pinned,
		Pin:               commit,
		Digest:            commit,
		Dependencies:      manifest.Dependencies,
		ExtraDependencies: manifest.Extras,
	}, nil
}

// urlSource materializes url-sourced candidates from a metadata document
// fetched at the URL, pinned by the document's content digest.
type urlSource struct {
	client *RegistryClient
}

func (u *urlSource) fetch(ctx context.Context, req domain.Requirement) (*domain.CandidateVersion, error) {
	body, err := u.client.FetchDocument(ctx, req.Source.URL)
	if err != nil {
		return nil, err
	}

	version, err := documentVersion(body)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "url source document carries no usable version"), "url", req.Source.URL)
	}

	cand, err := decodeCandidate(body, req.Name, version)
	if err != nil {
		return nil, err
	}

	digest := fmt.Sprintf("%016x", xxhash.Sum64(body))
	cand.Source = req.Source
	cand.Pin = digest
	cand.Digest = digest
	return cand, nil
}
