// Package zbxtpl searches and rewrites Zabbix template exports held in a
// doc.Document.  Find locates entries by key and value patterns and
// UpdateUUIDs maintains the uuid fields Zabbix uses to match template
// objects on import.
package zbxtpl
