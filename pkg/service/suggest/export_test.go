package suggest

var StripFences = stripFences
