package render

// BaseStylesheet is the curated reset and reading theme applied by the
// renderer shell. It is the only styling normalized fragments ever see;
// the original book's CSS is stripped during normalization.
const BaseStylesheet = `
:root {
  color-scheme: light dark;
}
body {
  margin: 0 auto;
  max-width: 42em;
  padding: 2em 1.5em;
  font-family: Georgia, "Times New Roman", serif;
  font-size: 1.05rem;
  line-height: 1.65;
}
h1, h2, h3, h4, h5, h6 {
  line-height: 1.25;
  margin: 1.4em 0 0.6em;
}
p {
  margin: 0 0 0.9em;
  text-align: justify;
}
img, svg {
  max-width: 100%;
  height: auto;
}
blockquote {
  margin: 1em 2em;
  font-style: italic;
}
table {
  border-collapse: collapse;
  max-width: 100%;
}
td, th {
  border: 1px solid currentColor;
  padding: 0.3em 0.6em;
}
hr.section-break {
  border: none;
  border-top: 1px solid currentColor;
  opacity: 0.3;
  margin: 3em auto;
  width: 50%;
}
.chapter-placeholder {
  opacity: 0.6;
  font-style: italic;
  text-align: center;
  padding: 3em 0;
}
`
