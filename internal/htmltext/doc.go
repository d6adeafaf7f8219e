// Package htmltext converts the HTML fragments embedded in broadcast
// metadata into plain text.
//
// The station API delivers subtitle, description, press release, and
// transcript fields as HTML. Two deterministic renderings of the same
// input exist: Render keeps hyperlink targets so long-form tag text stays
// useful, RenderText drops them for one-line summaries. Both decode
// entities, strip markup, break paragraphs with blank lines, and
// normalize the result to NFC.
package htmltext
