// Package compiler turns CUE catalog files into reaction type and entity
// type definitions.
//
// A catalog looks like:
//
//	reaction_type: {
//		Like:    weight: 1
//		Dislike: weight: -1
//	}
//
//	entity_type: {
//		"blog.Article": {alias: "article", reactable: true}
//		"app.User":     reacterable: true
//	}
//
// Compile* functions turn one CUE value into one definition and report CUE
// positions on failure. Validate checks a whole catalog and returns every
// problem it finds.
package compiler
