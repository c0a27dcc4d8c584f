/*
Package rewrite mediates every local reference in rendered HTML.

Three passes run in a fixed order over the document:

	<img src="...">           -> image?file=...&amp;mac=...&amp;hash=...
	<a ... href="...">        -> image?... or source?...&amp;projectUrl=...
	<object ... data="...">   -> image?file=...&amp;mac=...

Values that contain a colon (http:, https:, data:) are never touched, and
values that already carry a mediated prefix are left as they are, so the
rewrite is idempotent.
*/
package rewrite
