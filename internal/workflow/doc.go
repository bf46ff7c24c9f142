// Package workflow loads ComfyUI job documents and prepares them for
// submission.
//
// A job document wraps the workflow graph under input.workflow:
//
//	{
//	  "input": {
//	    "workflow": {
//	      "3": {"class_type": "KSampler", "inputs": {"seed": 42}},
//	      "6": {"class_type": "CLIPTextEncode", "inputs": {"text": "a cat"},
//	            "_meta": {"title": "Positive"}}
//	    }
//	  }
//	}
//
// Prepare randomizes every KSampler seed and, when a prompt is given, rewrites
// the positive CLIPTextEncode and PrimitiveStringMultiline nodes. Missing
// structure only produces warnings; the document is still submitted as-is.
// Mutations happen in memory and are never written back to disk.
package workflow
