package projection

// Project is the engine's single entry point: flatten data, apply rules to
// build a manifest, write the manifest into a nested document, then apply
// any declared post-projection filters. It fails only when an output path
// is malformed (a PathSyntaxError) or when writing or filtering meets a
// type conflict (a ProjectionTypeError), per the error handling design.
// When rules contribute no manifest entries, Project returns an empty
// mapping document.
func Project(data Document, rules []Rule) (Document, error) {
	manifest, filters := BuildManifest(data, rules)

	root, err := Write(manifest)
	if err != nil {
		return Document{}, err
	}

	if err := ApplyFilters(root, filters); err != nil {
		return Document{}, err
	}

	return root, nil
}
