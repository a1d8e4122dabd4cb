package mcpserver

// Tool descriptions with interpretation guidance for LLMs.

func describeAnalyzeVariables() string {
	return `Classifies the local variables of each method across two versions of a Java or Go file.

USE WHEN:
- Reviewing a refactoring that renamed, moved, or re-scoped local variables
- Checking whether a method change kept its variables' meaning
- Explaining which declarations disappeared or appeared in a method

INTERPRETING RESULTS:
- removed: declared in the old version with no counterpart in the new one
- added: declared in the new version with no counterpart in the old one
- changed: the same variable, now declared in a different enclosing method or lambda
  signature; each entry carries a "Change Variable Scope" description
- Statement correspondence comes from a baseline text mapper, so heavily
  rewritten methods report more removed/added pairs

METRICS RETURNED:
- Per method pair: removed, added, changed variables with line and scope range
- Summary: declaration counts per side, matched counts, mapped statements`
}

func describeAnalyzeCommit() string {
	return `Runs variable change analysis on every Java and Go file a git commit modified, against its first parent.

USE WHEN:
- Reviewing a commit for variable scope changes
- Auditing refactoring commits before merging

INTERPRETING RESULTS:
- files: one entry per modified file with one report per method pair
- skipped: files the commit added or deleted, which have no method pairs
- Test files and excluded directories from the configuration are ignored

METRICS RETURNED:
- Commit hash and subject line
- Per file: the same reports as analyze_variables`
}

func describeListMethods() string {
	return `Lists the methods, constructors, and functions that can be analyzed in a Java or Go file.

USE WHEN:
- Finding the exact name or signature to pass as "method" to analyze_variables
- Checking how many local variables each method declares

INTERPRETING RESULTS:
- signature: name, parameter types, and return type as used in scope descriptions
- declarations: local variables in the body, including anonymous classes
- has_body: false for abstract and interface methods

METRICS RETURNED:
- Per method: name, class, signature, start line, declaration count`
}
