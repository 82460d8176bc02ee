package indent

import (
	"fmt"
	"strings"
)

// Sample is a built-in input/output pair checked by the selftest command.
type Sample struct {
	Name  string
	Input string
	Want  string
}

// Samples returns the built-in fixtures, all for DefaultConfig.
func Samples() []Sample {
	return []Sample{
		{
			Name:  "mixed",
			Input: sampleMixedInput,
			Want:  sampleMixedWant,
		},
		{
			Name:  "comments-on-one-line",
			Input: sampleInlineCommentsInput,
			Want:  sampleInlineCommentsWant,
		},
		{
			Name:  "reindent-block",
			Input: "    {\n      var a;\n    }",
			Want:  "{\n    var a;\n}",
		},
		{
			Name:  "empty-pair",
			Input: "f = function() {\n\n}\nlist = [\n]",
			Want:  "f = function() {}\nlist = []",
		},
		{
			Name:  "dangling-terminator",
			Input: "call(a, b)\n;\nnext()",
			Want:  "call(a, b);\nnext()",
		},
		{
			Name:  "crlf",
			Input: "if (x) {\r\ny();\r}\r\n",
			Want:  "if (x) {\n    y();\n}",
		},
	}
}

// LineDiff lists the lines that differ between want and got as "- want" /
// "+ got" pairs. Extra lines on either side are reported the same way.
func LineDiff(want, got string) []string {
	wl := strings.Split(want, "\n")
	gl := strings.Split(got, "\n")
	var out []string
	for i := 0; i < max(len(wl), len(gl)); i++ {
		var w, g string
		hasW, hasG := i < len(wl), i < len(gl)
		if hasW {
			w = wl[i]
		}
		if hasG {
			g = gl[i]
		}
		if hasW && hasG && w == g {
			continue
		}
		if hasW {
			out = append(out, fmt.Sprintf("%d - %q", i+1, w))
		}
		if hasG {
			out = append(out, fmt.Sprintf("%d + %q", i+1, g))
		}
	}
	return out
}

const sampleMixedInput = `
    { 
      var a;
    }


function f() {  // comment
    {
       var b = 0;
    }
  var d = {k: 1}
    /*
     *
    {
  something
     */
    // {
    // }
    /*
    }
     */
}    
}
var after;
/* not supported */  {
var here;
`

const sampleMixedWant = `{
    var a;
}


function f() {  // comment
    {
        var b = 0;
    }
    var d = {k: 1}
    /*
     *
    {
    something
     */
    // {
    // }
    /*
    }
     */
}
}
var after;
/* not supported */  {
var here;`

const sampleInlineCommentsInput = `
/** this */
multiple_comments_on_one_line 
{
  /**/ import flash.display.MovieClip /**/
  public class
  {
      /**/ private var level:int /**/
      private function getLevel():int   
      {
        return level;
      }
  }
}
`

const sampleInlineCommentsWant = `/** this */
multiple_comments_on_one_line
{
    /**/ import flash.display.MovieClip /**/
    public class
    {
        /**/ private var level:int /**/
        private function getLevel():int
        {
            return level;
        }
    }
}`
