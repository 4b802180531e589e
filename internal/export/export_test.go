package export

var Wrap = wrap
