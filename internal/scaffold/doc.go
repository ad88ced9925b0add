// Package scaffold writes a planned feature module to disk. A Writer checks
// that the module directory is free, creates the planned directories and
// renders the embedded file templates, journaling every path it creates so a
// failed run can be rolled back in reverse order. Run ties the resolver, the
// planner, the writer and the settings updater together for one request.
package scaffold
