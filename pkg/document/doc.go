// Package document provides the tree operations the grouping engine needs on
// top of golang.org/x/net/html: class and attribute queries, XPath lookups,
// relocation of subtrees and construction of new elements.
package document
