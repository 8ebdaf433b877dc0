/*
Package catsort regroups a server-rendered category listing into named groups.

A forum page renders every category in one flat listing. catsort reads a
group mapping (rules matching category slugs by substring), finds the
original listing in the rendered HTML tree, moves every rendered category
into the container of its group and retires the original listing.

# Mapping

Mapping entries are separated by "|". Each entry is "group;rule", where the
rule is a literal substring, a JSON array of substrings or a JSON object
with a "patterns" array:

	bugs;bug-reports|feature;["feature","idea"]|staff;{"patterns":["staff"]}

Rules are evaluated in declaration order and the first matching rule wins.
Categories matched by no rule go to the "other" group.

# Layouts

The original listing is found by a configurable, ordered set of strategies:

  - tabular: a table.category-list.with-topics with one row per category.
  - list: a div.category-list.with-topics with one .category-list-item per category.
  - ancestor: walks up from any element carrying data-category-id.

A document no strategy recognizes is left untouched and the run reports
domain.OutcomeNotFound.

# Usage

	eng, err := catsort.New()
	if err != nil {
		log.Fatal(err)
	}

	out, report, err := eng.GroupDocument(ctx, page, categories, mapping.FromString("bugs;bug"))
	if err != nil {
		log.Fatal(err)
	}
	log.Println(report.Outcome, report.Relocated)
*/
package catsort
