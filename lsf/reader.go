package lsf

import (
	"github.com/sirupsen/logrus"

	"github.com/clemarescx/bg3d/internal/binreader"
	"github.com/clemarescx/bg3d/lspk"
)

// globalsEntryName is the logical path LoadGlobals resolves.
const globalsEntryName = "globals.lsf"

// Read decompresses pfi out of pr and parses it as an LSF resource,
// selecting the V2 or V3 node/attribute dialect from the header before
// handing off to the structural decoders and tree assembler.
func Read(pr *lspk.PackageReader, pfi lspk.PackagedFileInfo) (*Resource, error) {
	raw, err := pr.DecompressEntry(pfi)
	if err != nil {
		return nil, wrapf(err, "failed to decompress %q", pfi.Name)
	}

	r := binreader.New(raw)

	h, err := readHeader(r)
	if err != nil {
		return nil, wrap(err, "failed to read header")
	}
	logrus.WithFields(logrus.Fields{
		"entry":   pfi.Name,
		"version": h.version,
	}).Debug("reading LSF resource")

	secs, err := readSections(r, h)
	if err != nil {
		return nil, wrap(err, "failed to read sections")
	}

	names, err := readNames(secs.strings)
	if err != nil {
		return nil, wrap(err, "failed to read name pool")
	}

	longDialect := h.version >= VerExtendedNodes && h.metadata.hasSiblingData == 1

	nodeInfos, err := readNodes(secs.nodes, longDialect)
	if err != nil {
		return nil, wrap(err, "failed to read nodes")
	}

	attrInfos, err := readAttributes(secs.attributes, longDialect)
	if err != nil {
		return nil, wrap(err, "failed to read attributes")
	}

	a := assembler{
		names:      names,
		nodeInfos:  nodeInfos,
		attributes: attrInfos,
		decoder:    valueDecoder{version: h.version, engine: h.engine},
	}

	resource, err := a.build(binreader.New(secs.values))
	if err != nil {
		return nil, wrap(err, "failed to assemble tree")
	}
	resource.EngineVersion = h.engine

	return resource, nil
}

// LoadGlobals locates the entry whose logical path equals "globals.lsf"
// case-insensitively and parses it as an LSF resource.
func LoadGlobals(pr *lspk.PackageReader, pkg *lspk.Package) (*Resource, error) {
	pfi, ok := pkg.FindEntry(globalsEntryName)
	if !ok {
		return nil, wrapf(ErrNotLSF, "no %q entry in package", globalsEntryName)
	}
	return Read(pr, pfi)
}
